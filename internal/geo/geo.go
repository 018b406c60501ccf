// Package geo resolves place-name mentions in free text against a
// static gazetteer. Matching is case-insensitive, whole-word, and
// longest-name-first so that "Bandar Abbas" wins over a standalone
// "Abbas" ever matching.
package geo

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Match is one resolved place mention.
type Match struct {
	Name string
	Lat  float64
	Lon  float64
}

var (
	pattern   *regexp.Regexp
	titleCase = cases.Title(language.English)
)

func init() {
	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	// Longer names first so the alternation prefers "bandar abbas"
	// over any single-word prefix of it.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	pattern = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// ExtractLocations finds all known place mentions in text, deduplicated
// by canonical name, in order of first appearance.
func ExtractLocations(text string) []Match {
	seen := make(map[string]bool)
	var out []Match
	for _, raw := range pattern.FindAllString(text, -1) {
		key := strings.ToLower(strings.TrimSpace(raw))
		if seen[key] {
			continue
		}
		seen[key] = true
		coord, ok := locations[key]
		if !ok {
			continue
		}
		out = append(out, Match{Name: titleCase.String(key), Lat: coord.Lat, Lon: coord.Lon})
	}
	return out
}

// ExtractPrimaryLocation returns the first (most prominent) place
// mention, if any. Absence of a match is a normal outcome, not an error.
func ExtractPrimaryLocation(text string) (Match, bool) {
	matches := ExtractLocations(text)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// Lookup resolves a place name directly, bypassing text scanning.
func Lookup(name string) (Coord, bool) {
	coord, ok := locations[strings.ToLower(strings.TrimSpace(name))]
	return coord, ok
}
