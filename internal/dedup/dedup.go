// Package dedup collapses duplicate coverage of the same real-world
// incident. Two records are duplicates iff their timestamps fall within
// a proximity window AND their normalized titles are similar enough;
// window and threshold depend on whether the records share a source,
// because same-outlet republishing behaves differently from distinct
// outlets covering one story.
package dedup

import (
	"strings"
	"time"

	"github.com/ppiankov/crisiswatch/internal/model"
)

// Policy pairs a time window with a similarity threshold.
type Policy struct {
	Window    time.Duration
	Threshold float64
}

var (
	// SameSource catches an outlet re-publishing or updating a headline:
	// wide window, strict similarity.
	SameSource = Policy{Window: 120 * time.Minute, Threshold: 0.85}

	// CrossSource catches different outlets covering the same incident:
	// narrow window, looser similarity.
	CrossSource = Policy{Window: 30 * time.Minute, Threshold: 0.65}
)

func similarTitles(a, b string, threshold float64) bool {
	an := strings.ToLower(strings.TrimSpace(a))
	bn := strings.ToLower(strings.TrimSpace(b))
	if an == bn {
		return true
	}
	return Ratio(an, bn) >= threshold
}

// IsDuplicate reports whether a and b describe the same incident under
// the applicable policy.
func IsDuplicate(a, b model.Event) bool {
	policy := CrossSource
	if a.SourceName == b.SourceName {
		policy = SameSource
	}

	delta := a.Timestamp.Sub(b.Timestamp)
	if delta < 0 {
		delta = -delta
	}
	if delta > policy.Window {
		return false
	}
	return similarTitles(a.Title, b.Title, policy.Threshold)
}

// Deduplicate removes near-duplicates within a single batch, processing
// records in input order. When a duplicate pair is found the record with
// the strictly longer summary wins (the more detailed report); O(n²)
// over batch sizes of tens to low hundreds.
func Deduplicate(events []model.Event) []model.Event {
	if len(events) == 0 {
		return nil
	}

	kept := make([]model.Event, 0, len(events))
	for _, ev := range events {
		dup := false
		for i, existing := range kept {
			if IsDuplicate(ev, existing) {
				if len(ev.Summary) > len(existing.Summary) {
					kept[i] = ev
				}
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, ev)
		}
	}
	return kept
}

// FilterNovel returns the subset of incoming that duplicates nothing in
// existing. Run after Deduplicate and before store insertion; stored
// records are immutable so there is no replacement here, only filtering.
func FilterNovel(incoming, existing []model.Event) []model.Event {
	if len(existing) == 0 {
		return incoming
	}

	novel := make([]model.Event, 0, len(incoming))
	for _, ev := range incoming {
		dup := false
		for _, ex := range existing {
			if IsDuplicate(ev, ex) {
				dup = true
				break
			}
		}
		if !dup {
			novel = append(novel, ev)
		}
	}
	return novel
}
