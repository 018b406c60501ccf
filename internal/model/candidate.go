package model

import "time"

// Geo is a named coordinate attached to a candidate.
type Geo struct {
	Name string
	Lat  float64
	Lon  float64
}

// Candidate is an event under construction, as produced by a source
// parser. Classification, severity and location are pointers so that
// "the parser never set this" is distinct from "the parser chose the
// default": enrichment only fills nil fields, and Resolve turns the
// remaining gaps into concrete defaults exactly once.
type Candidate struct {
	Title      string
	Summary    string
	SourceName string
	SourceURL  string

	// Zero value means the source supplied no publish time; Resolve
	// substitutes the fetch time.
	Timestamp time.Time

	Type     *EventType
	Severity *int
	Location *Geo
}

// Resolve finalizes the candidate into an immutable Event. fetchedAt is
// used when the source carried no usable timestamp.
func (c Candidate) Resolve(fetchedAt time.Time) Event {
	ev := Event{
		Title:      c.Title,
		Summary:    c.Summary,
		SourceName: c.SourceName,
		SourceURL:  c.SourceURL,
		Timestamp:  c.Timestamp.UTC(),
		Type:       TypeOther,
		Severity:   3,
	}

	if c.Timestamp.IsZero() {
		ev.Timestamp = fetchedAt.UTC()
	}
	if c.Type != nil {
		ev.Type = *c.Type
	}
	if c.Severity != nil {
		ev.Severity = ClampSeverity(*c.Severity)
	}
	if c.Location != nil {
		lat, lon := c.Location.Lat, c.Location.Lon
		ev.LocationName = c.Location.Name
		ev.Latitude = &lat
		ev.Longitude = &lon
	}

	ev.ID = EventID(ev.Title, ev.SourceName)
	return ev
}
