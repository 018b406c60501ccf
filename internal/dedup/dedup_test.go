package dedup

import (
	"testing"
	"time"

	"github.com/ppiankov/crisiswatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func event(title, source, summary string, at time.Time) model.Event {
	return model.Candidate{
		Title:      title,
		Summary:    summary,
		SourceName: source,
		Timestamp:  at,
	}.Resolve(at)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("abc", "abc"))
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.InDelta(t, 0.75, Ratio("abcd", "bcde"), 1e-9)
	// Symmetric-ish for typical title pairs.
	a, b := "israel strikes tehran facility", "israel strikes tehran facility overnight"
	assert.Greater(t, Ratio(a, b), 0.85)
}

func TestIsDuplicate_CrossSourceWindow(t *testing.T) {
	a := event("Israel strikes Tehran facility", "BBC News", "", t0)
	b := event("Israel strikes Tehran facility overnight", "CNN", "", t0.Add(10*time.Minute))

	assert.True(t, IsDuplicate(a, b), "similar titles 10 min apart across sources")

	// Same pair but 40 minutes apart falls outside the 30-min window.
	c := event("Israel strikes Tehran facility overnight", "CNN", "", t0.Add(40*time.Minute))
	assert.False(t, IsDuplicate(a, c))
}

func TestIsDuplicate_SameSourceWiderWindow(t *testing.T) {
	a := event("Explosion reported at Natanz site", "NPR", "", t0)
	b := event("Explosion reported at Natanz site today", "NPR", "", t0.Add(90*time.Minute))

	assert.True(t, IsDuplicate(a, b), "90 min is inside the same-source 120-min window")

	// The identical pair from different outlets is outside cross-source's
	// 30-min window at 90 minutes.
	c := event("Explosion reported at Natanz site today", "BBC News", "", t0.Add(90*time.Minute))
	assert.False(t, IsDuplicate(a, c))
}

func TestIsDuplicate_DistinctStoriesNotMerged(t *testing.T) {
	a := event("Security Council schedules emergency session", "BBC News", "", t0)
	b := event("Oil tanker transits strait unhindered", "BBC News", "", t0)

	assert.False(t, IsDuplicate(a, b), "unrelated titles in the same minute stay separate")
}

func TestIsDuplicate_ExactTitleShortCircuits(t *testing.T) {
	// Exact normalized match is a duplicate regardless of similarity math.
	a := event("  Sirens over Haifa ", "CNN", "", t0)
	b := event("sirens over haifa", "BBC News", "", t0.Add(5*time.Minute))
	assert.True(t, IsDuplicate(a, b))
}

func TestDeduplicate_LongerSummaryWins(t *testing.T) {
	short := event("Israel strikes Tehran facility", "BBC News", "brief", t0)
	long := event("Israel strikes Tehran facility overnight", "CNN",
		"a much more detailed report with casualty figures", t0.Add(10*time.Minute))

	kept := Deduplicate([]model.Event{short, long})
	require.Len(t, kept, 1)
	assert.Equal(t, long.ID, kept[0].ID)

	// Reversed input order: the longer summary still survives, this time
	// by the shorter newcomer being discarded.
	kept = Deduplicate([]model.Event{long, short})
	require.Len(t, kept, 1)
	assert.Equal(t, long.ID, kept[0].ID)
}

func TestDeduplicate_KeepsDistinct(t *testing.T) {
	events := []model.Event{
		event("Security Council schedules emergency session", "BBC News", "", t0),
		event("Oil tanker transits strait unhindered", "BBC News", "", t0),
		event("Sirens over Haifa", "CNN", "", t0),
	}
	assert.Len(t, Deduplicate(events), 3)
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
}

func TestFilterNovel(t *testing.T) {
	stored := []model.Event{
		event("Israel strikes Tehran facility", "BBC News", "", t0),
	}
	incoming := []model.Event{
		event("Israel strikes Tehran facility overnight", "CNN", "", t0.Add(10*time.Minute)),
		event("Aid convoy reaches the border crossing", "CNN", "", t0.Add(10*time.Minute)),
	}

	novel := FilterNovel(incoming, stored)
	require.Len(t, novel, 1)
	assert.Equal(t, "Aid convoy reaches the border crossing", novel[0].Title)

	// Empty store passes everything through untouched.
	assert.Len(t, FilterNovel(incoming, nil), 2)
}
