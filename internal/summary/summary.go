// Package summary produces a short natural-language overview of the
// current situation from recent events. The heuristic generator needs no
// external service; an optional model-backed digester can polish its
// output when configured.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/crisiswatch/internal/model"
)

const (
	windowHours  = 2
	trendRecent  = 30 * time.Minute
	trendOlder   = 90 * time.Minute
	noRecentText = "No significant events reported in the last 2 hours."
)

// typeNames maps display labels to singular/plural phrasing.
var typeNames = map[string][2]string{
	"Airstrike":    {"airstrike", "airstrikes"},
	"Missile":      {"missile event", "missile events"},
	"Explosion":    {"explosion", "explosions"},
	"Alert":        {"alert", "alerts"},
	"Military":     {"military movement", "military movements"},
	"Political":    {"political development", "political developments"},
	"Humanitarian": {"humanitarian report", "humanitarian reports"},
	"Other":        {"other report", "other reports"},
}

// criticalTypes get the "Active situation" framing.
var criticalTypes = map[string]bool{
	"Airstrike": true,
	"Missile":   true,
	"Explosion": true,
}

func typeName(label string, count int) string {
	names, ok := typeNames[label]
	if !ok {
		names = [2]string{strings.ToLower(label), strings.ToLower(label) + "s"}
	}
	if count == 1 {
		return names[0]
	}
	return names[1]
}

// labelCount is one entry of an ordered tally.
type labelCount struct {
	label string
	count int
}

// tally counts occurrences and returns them ordered by count descending,
// first appearance breaking ties so output is deterministic.
func tally(labels []string) []labelCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, l := range labels {
		if _, ok := counts[l]; !ok {
			firstSeen[l] = i
		}
		counts[l]++
	}
	out := make([]labelCount, 0, len(counts))
	for l, c := range counts {
		out = append(out, labelCount{l, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return firstSeen[out[i].label] < firstSeen[out[j].label]
	})
	return out
}

// Generate builds a 2-3 sentence situation summary from the events,
// considering only those inside the 2-hour window ending now.
func Generate(events []model.Event) string {
	now := model.Clock().Now().UTC()
	cutoff := now.Add(-windowHours * time.Hour)

	var recent []model.Event
	for _, ev := range events {
		if !ev.Timestamp.Before(cutoff) {
			recent = append(recent, ev)
		}
	}
	if len(recent) == 0 {
		return noRecentText
	}

	var typeLabels, locNames []string
	for _, ev := range recent {
		typeLabels = append(typeLabels, ev.Type.Display().Label)
		if ev.LocationName != "" {
			locNames = append(locNames, ev.LocationName)
		}
	}
	typeCounts := tally(typeLabels)
	locCounts := tally(locNames)

	var topLocations []string
	for i, lc := range locCounts {
		if i >= 3 {
			break
		}
		topLocations = append(topLocations, lc.label)
	}

	recentCutoff := now.Add(-trendRecent)
	olderCutoff := now.Add(-trendRecent - trendOlder)
	countRecent, countOlder := 0, 0
	for _, ev := range recent {
		switch {
		case !ev.Timestamp.Before(recentCutoff):
			countRecent++
		case !ev.Timestamp.Before(olderCutoff):
			countOlder++
		}
	}

	var sentences []string

	var criticalParts, otherParts []string
	for _, tc := range typeCounts {
		phrase := fmt.Sprintf("%d %s", tc.count, typeName(tc.label, tc.count))
		if criticalTypes[tc.label] {
			criticalParts = append(criticalParts, phrase)
		} else {
			otherParts = append(otherParts, phrase)
		}
	}

	switch {
	case len(criticalParts) > 0:
		locSuffix := ""
		if len(topLocations) > 0 {
			locSuffix = " near " + joinList(topLocations)
		}
		sentences = append(sentences, fmt.Sprintf(
			"Active situation: %s%s in the last %d hours.",
			joinList(criticalParts), locSuffix, windowHours))
	case len(otherParts) > 0:
		if len(otherParts) > 3 {
			otherParts = otherParts[:3]
		}
		sentences = append(sentences, fmt.Sprintf(
			"Monitoring: %s reported in the last %d hours.",
			joinList(otherParts), windowHours))
	}

	if countRecent > 0 || countOlder > 0 {
		switch {
		case float64(countRecent) > float64(countOlder)*1.5 && countRecent >= 3:
			sentences = append(sentences, fmt.Sprintf(
				"Intensity is escalating with %d new events in the last %d minutes.",
				countRecent, int(trendRecent.Minutes())))
		case float64(countOlder) > float64(countRecent)*1.5 && countOlder >= 3:
			sentences = append(sentences, fmt.Sprintf(
				"Activity appears to be calming, %d events in the last %d min vs. %d earlier.",
				countRecent, int(trendRecent.Minutes()), countOlder))
		default:
			sentences = append(sentences, fmt.Sprintf(
				"%d events in the last %d minutes, situation remains fluid.",
				countRecent, int(trendRecent.Minutes())))
		}
	}

	humanitarian := 0
	for _, tc := range typeCounts {
		if tc.label == "Humanitarian" {
			humanitarian = tc.count
		}
	}
	switch {
	case humanitarian >= 2:
		if len(locCounts) > 1 {
			sentences = append(sentences, fmt.Sprintf(
				"Humanitarian impact reported across %d locations.", len(locCounts)))
		} else {
			sentences = append(sentences, "Humanitarian impact reported in the region.")
		}
	case len(topLocations) >= 2 && len(criticalParts) == 0:
		sentences = append(sentences, fmt.Sprintf(
			"Events reported across %s.", joinList(topLocations)))
	}

	return strings.Join(sentences, " ")
}

// joinList joins items as "a", "a and b", or "a, b, and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
