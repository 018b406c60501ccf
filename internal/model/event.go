package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// EventType classifies a news event.
type EventType string

const (
	TypeAirstrike        EventType = "airstrike"
	TypeMissile          EventType = "missile"
	TypeExplosion        EventType = "explosion"
	TypeAlert            EventType = "alert"
	TypeMilitaryMovement EventType = "military_movement"
	TypePolitical        EventType = "political"
	TypeHumanitarian     EventType = "humanitarian"
	TypeOther            EventType = "other"
)

// TypeDisplay holds presentation hints for an event type. The core never
// renders these itself; they are passed through to the presentation layer.
type TypeDisplay struct {
	Label     string `json:"label"`
	Indicator string `json:"indicator"`
	Color     string `json:"color"`
}

var typeDisplay = map[EventType]TypeDisplay{
	TypeAirstrike:        {Label: "Airstrike", Indicator: "STR", Color: "red"},
	TypeMissile:          {Label: "Missile", Indicator: "MSL", Color: "purple"},
	TypeExplosion:        {Label: "Explosion", Indicator: "EXP", Color: "orange"},
	TypeAlert:            {Label: "Alert", Indicator: "ALT", Color: "yellow"},
	TypeMilitaryMovement: {Label: "Military", Indicator: "MIL", Color: "blue"},
	TypePolitical:        {Label: "Political", Indicator: "POL", Color: "gray"},
	TypeHumanitarian:     {Label: "Humanitarian", Indicator: "HUM", Color: "pink"},
	TypeOther:            {Label: "Other", Indicator: "INF", Color: "white"},
}

// Display returns the presentation hints for t, falling back to "other".
func (t EventType) Display() TypeDisplay {
	if d, ok := typeDisplay[t]; ok {
		return d
	}
	return typeDisplay[TypeOther]
}

// Event is one normalized news event. Immutable once constructed;
// any fixing-up happens on a Candidate before Resolve.
type Event struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	SourceName string    `json:"source_name"`
	SourceURL  string    `json:"source_url,omitempty"`
	Timestamp  time.Time `json:"timestamp"`

	// Present only when a location was resolved. Latitude and Longitude
	// are always set (or unset) together.
	LocationName string   `json:"location_name,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	Type     EventType `json:"type"`
	Severity int       `json:"severity"`
}

// HasLocation reports whether the event carries a resolved coordinate pair.
func (e Event) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// AgeMinutes returns the minutes elapsed since the event timestamp.
func (e Event) AgeMinutes(now time.Time) float64 {
	return now.Sub(e.Timestamp).Minutes()
}

// EventID derives the stable identifier for a (title, source) pair.
// The timestamp is deliberately excluded: the same headline re-fetched
// from the same source must always collide to the same id.
func EventID(title, sourceName string) string {
	norm := strings.ToLower(strings.TrimSpace(title))
	sum := sha256.Sum256([]byte(norm + "|" + sourceName))
	return hex.EncodeToString(sum[:])[:16]
}

// ClampSeverity forces s into the valid [1,5] range.
func ClampSeverity(s int) int {
	if s < 1 {
		return 1
	}
	if s > 5 {
		return 5
	}
	return s
}
