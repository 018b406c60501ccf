package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLocations_LongestNameWins(t *testing.T) {
	// "Bandar Abbas" must resolve as the two-word port city; no spurious
	// standalone match for the second word.
	matches := ExtractLocations("Explosions reported near Bandar Abbas port")

	require.Len(t, matches, 1)
	assert.Equal(t, "Bandar Abbas", matches[0].Name)
	assert.InDelta(t, 27.1832, matches[0].Lat, 1e-4)
	assert.InDelta(t, 56.2666, matches[0].Lon, 1e-4)
}

func TestExtractLocations_CaseInsensitiveWholeWord(t *testing.T) {
	matches := ExtractLocations("sirens heard in TEHRAN and tel aviv")

	require.Len(t, matches, 2)
	assert.Equal(t, "Tehran", matches[0].Name)
	assert.Equal(t, "Tel Aviv", matches[1].Name)

	// Substrings inside larger words must not match.
	assert.Empty(t, ExtractLocations("the qomission convened"))
}

func TestExtractLocations_DeduplicatesPreservingOrder(t *testing.T) {
	matches := ExtractLocations("Tehran again: strikes on Tehran follow Isfahan raid")

	require.Len(t, matches, 2)
	assert.Equal(t, "Tehran", matches[0].Name)
	assert.Equal(t, "Isfahan", matches[1].Name)
}

func TestExtractPrimaryLocation(t *testing.T) {
	m, ok := ExtractPrimaryLocation("Missiles fired toward Haifa from south lebanon")
	require.True(t, ok)
	assert.Equal(t, "Haifa", m.Name)

	_, ok = ExtractPrimaryLocation("markets rally on tech earnings")
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	coord, ok := Lookup("  Strait of Hormuz ")
	require.True(t, ok)
	assert.InDelta(t, 26.5667, coord.Lat, 1e-4)

	_, ok = Lookup("atlantis")
	assert.False(t, ok)
}
