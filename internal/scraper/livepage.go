package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/net/html"

	"github.com/ppiankov/crisiswatch/internal/model"
)

// LivePageScraper handles live-updates pages that publish entries as
// repeated article-like blocks in the markup. Per-site selector quirks
// are deliberately loose: any block tagged as a live-story entry counts,
// with a plain <article> fallback.
type LivePageScraper struct {
	cfg     model.SourceConfig
	fetcher *Fetcher
	cap     int
	logger  *slog.Logger
}

// NewLivePageScraper creates a markup scraper for one source.
func NewLivePageScraper(cfg model.SourceConfig, opts Options) *LivePageScraper {
	return &LivePageScraper{
		cfg:     cfg,
		fetcher: opts.Fetcher,
		cap:     opts.Cap,
		logger:  opts.Logger,
	}
}

func (s *LivePageScraper) Name() string { return s.cfg.Name }

// Scrape fetches the page and extracts one event per entry block.
func (s *LivePageScraper) Scrape(ctx context.Context) (events []model.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			events, err = nil, fmt.Errorf("%s: recovered: %v", s.cfg.Name, r)
		}
	}()

	body, err := s.fetcher.Fetch(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch: %w", s.cfg.Name, err)
	}
	events, err = s.parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.cfg.Name, err)
	}
	s.logger.Info("live page parsed", "source", s.cfg.Name, "events", len(events))
	return events, nil
}

func (s *LivePageScraper) parse(body []byte) ([]model.Event, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	entries := findEntryBlocks(doc)
	fetchedAt := model.Clock().Now().UTC()

	var events []model.Event
	for _, entry := range entries {
		if len(events) >= s.cap {
			break
		}
		cand, ok := s.entryToCandidate(entry)
		if !ok {
			continue
		}
		Enrich(&cand, s.cfg.Name)
		events = append(events, cand.Resolve(fetchedAt))
	}
	return events, nil
}

func (s *LivePageScraper) entryToCandidate(entry *html.Node) (model.Candidate, bool) {
	title := cleanText(firstText(entry, "h2", "h3", "h4"))

	var paragraphs []string
	for _, p := range findAll(entry, "p") {
		if len(paragraphs) >= 3 {
			break
		}
		if text := cleanText(nodeText(p)); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	summary := truncate(strings.Join(paragraphs, " "), 500)

	if title == "" && summary == "" {
		return model.Candidate{}, false
	}
	if title == "" {
		title = truncate(summary, 120)
	}

	cand := model.Candidate{
		Title:      truncate(title, 200),
		Summary:    summary,
		SourceName: s.cfg.Name,
		SourceURL:  s.entryLink(entry),
		Timestamp:  entryTimestamp(entry),
	}
	if cand.SourceURL == "" {
		cand.SourceURL = s.cfg.URL
	}
	return cand, true
}

func (s *LivePageScraper) entryLink(entry *html.Node) string {
	for _, a := range findAll(entry, "a") {
		href := attr(a, "href")
		if href == "" {
			continue
		}
		if strings.HasPrefix(href, "http") {
			return href
		}
		if base, err := url.Parse(s.cfg.URL); err == nil {
			if ref, err := url.Parse(href); err == nil {
				return base.ResolveReference(ref).String()
			}
		}
	}
	return ""
}

func entryTimestamp(entry *html.Node) time.Time {
	for _, t := range findAll(entry, "time") {
		raw := attr(t, "datetime")
		if raw == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts.UTC()
		}
		if ts, err := dateparse.ParseAny(raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// findEntryBlocks returns the page's live-story blocks, falling back to
// all <article> elements when the page uses no recognizable markers.
func findEntryBlocks(doc *html.Node) []*html.Node {
	var marked []*html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		class := strings.ToLower(attr(n, "class"))
		switch {
		case attr(n, "data-type") == "live-story",
			strings.Contains(class, "live-story"),
			strings.Contains(class, "livestory"),
			n.Data == "article" && strings.Contains(class, "live"):
			marked = append(marked, n)
			return false // don't descend into a matched block
		}
		return true
	})
	if len(marked) > 0 {
		return marked
	}
	return findAll(doc, "article")
}

// walk visits nodes depth-first; visit returning false prunes the
// subtree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// findAll collects descendant elements with the given tag name.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
			return false
		}
		return true
	})
	return out
}

// firstText returns the text of the first descendant matching any of the
// given tags, in tag preference order.
func firstText(n *html.Node, tags ...string) string {
	for _, tag := range tags {
		if nodes := findAll(n, tag); len(nodes) > 0 {
			return nodeText(nodes[0])
		}
	}
	return ""
}

// nodeText extracts visible text, skipping script-like subtrees.
func nodeText(n *html.Node) string {
	var buf strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "script", "style", "noscript", "iframe":
				return false
			}
		}
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
			buf.WriteString(" ")
		}
		return true
	})
	return buf.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
