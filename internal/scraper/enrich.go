package scraper

import (
	"github.com/ppiankov/crisiswatch/internal/classify"
	"github.com/ppiankov/crisiswatch/internal/geo"
	"github.com/ppiankov/crisiswatch/internal/model"
)

// Enrich fills classification, severity and location on a candidate,
// only where the parser left them unset. A field the parser explicitly
// set is never overwritten, and running Enrich a second time changes
// nothing.
func Enrich(c *model.Candidate, sourceName string) {
	if c.SourceName == "" {
		c.SourceName = sourceName
	}
	if c.Type == nil {
		t := classify.Categorize(c.Title, c.Summary)
		c.Type = &t
	}
	if c.Severity == nil {
		s := classify.EstimateSeverity(c.Title, c.Summary)
		c.Severity = &s
	}
	if c.Location == nil {
		if m, ok := geo.ExtractPrimaryLocation(c.Title + " " + c.Summary); ok {
			c.Location = &model.Geo{Name: m.Name, Lat: m.Lat, Lon: m.Lon}
		}
	}
}
