// Package news describes the publishers khobor can list headlines from and
// turns their listing documents into ordered entries.
package news

import (
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/khobor/config"
	"github.com/mohammad-safakhou/khobor/models"
	"github.com/mohammad-safakhou/khobor/news/feed"
	"github.com/mohammad-safakhou/khobor/news/sitemap"
)

// ListingKind selects the parser for a source's listing document.
type ListingKind string

const (
	KindSitemap ListingKind = "sitemap"
	KindRSS     ListingKind = "rss"
)

// DateLayout is the day format used in listing URLs and date filters.
const DateLayout = "2006-01-02"

// Dhaka is the publishers' local time zone (UTC+6, no daylight saving).
var Dhaka = time.FixedZone("BST", 6*60*60)

// SourceInfo describes one listing source.
type SourceInfo struct {
	ID     models.Source
	Name   string
	Domain string
	Kind   ListingKind
	// ListingURL may contain a {date} placeholder filled with DateLayout.
	ListingURL string
	// FilterByDate keeps only entries whose publication date starts with the listing day.
	FilterByDate bool
	// FetchTitles marks listings without titles; each page title is fetched separately.
	FetchTitles bool
}

// Dated reports whether the listing depends on the day, enabling day fallback.
func (s SourceInfo) Dated() bool {
	return s.FilterByDate || strings.Contains(s.ListingURL, "{date}")
}

// URLFor returns the listing URL for day.
func (s SourceInfo) URLFor(day time.Time) string {
	return strings.ReplaceAll(s.ListingURL, "{date}", day.In(Dhaka).Format(DateLayout))
}

// Builtin returns the publishers supported out of the box, in listing order.
func Builtin() []SourceInfo {
	return []SourceInfo{
		{
			ID:           models.SourceDailyStar,
			Name:         "The Daily Star",
			Domain:       "thedailystar.net",
			Kind:         KindSitemap,
			ListingURL:   "https://www.thedailystar.net/googlenews.xml",
			FilterByDate: true,
		},
		{
			ID:         models.SourceDhakaTribune,
			Name:       "Dhaka Tribune",
			Domain:     "dhakatribune.com",
			Kind:       KindSitemap,
			ListingURL: "https://www.dhakatribune.com/news-sitemap.xml",
		},
		{
			ID:          models.SourceProthomAlo,
			Name:        "Prothom Alo",
			Domain:      "prothomalo.com",
			Kind:        KindSitemap,
			ListingURL:  "https://www.prothomalo.com/sitemap/sitemap-daily-{date}.xml",
			FetchTitles: true,
		},
		{
			ID:         models.SourceJugantor,
			Name:       "Jugantor",
			Domain:     "jugantor.com",
			Kind:       KindSitemap,
			ListingURL: "https://www.jugantor.com/news_sitemap.xml",
		},
	}
}

// Catalogue is an ordered, read-only set of sources.
type Catalogue struct {
	order   []models.Source
	sources map[models.Source]SourceInfo
}

func NewCatalogue(infos ...SourceInfo) *Catalogue {
	c := &Catalogue{sources: make(map[models.Source]SourceInfo, len(infos))}
	for _, info := range infos {
		if _, dup := c.sources[info.ID]; !dup {
			c.order = append(c.order, info.ID)
		}
		c.sources[info.ID] = info
	}
	return c
}

// FromConfig builds the catalogue of enabled built-ins followed by configured extras.
func FromConfig(cfg config.SourcesConfig) (*Catalogue, error) {
	builtin := map[models.Source]SourceInfo{}
	for _, info := range Builtin() {
		builtin[info.ID] = info
	}
	var infos []SourceInfo
	for _, raw := range cfg.Enabled {
		id := models.ParseSource(raw)
		info, ok := builtin[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a built-in source", models.ErrUnknownSource, raw)
		}
		infos = append(infos, info)
	}
	for _, extra := range cfg.Extra {
		domain := extra.Domain
		if domain == "" {
			domain = config.NormalizeHost(extra.URL)
		}
		name := extra.Name
		if name == "" {
			name = extra.ID
		}
		infos = append(infos, SourceInfo{
			ID:         models.ParseSource(extra.ID),
			Name:       name,
			Domain:     domain,
			Kind:       ListingKind(extra.Kind),
			ListingURL: extra.URL,
		})
	}
	return NewCatalogue(infos...), nil
}

// Lookup returns the source registered under id.
func (c *Catalogue) Lookup(id models.Source) (SourceInfo, error) {
	info, ok := c.sources[id]
	if !ok {
		return SourceInfo{}, fmt.Errorf("%w: %q", models.ErrUnknownSource, id)
	}
	return info, nil
}

// Sources returns every source in catalogue order.
func (c *Catalogue) Sources() []SourceInfo {
	out := make([]SourceInfo, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.sources[id])
	}
	return out
}

// Entry is one article link read from a listing document.
type Entry struct {
	URL   string
	Title string
	// Category is set when the listing declares one (RSS <category>).
	Category  string
	Published string
}

// ParseListing decodes body according to the source's listing kind.
func ParseListing(info SourceInfo, body string) ([]Entry, error) {
	switch info.Kind {
	case KindRSS:
		items, err := feed.NewParser().Parse(body)
		if err != nil {
			return nil, err
		}
		entries := make([]Entry, 0, len(items))
		for _, it := range items {
			e := Entry{URL: it.Link, Title: it.Title, Published: it.Published}
			if len(it.Categories) > 0 {
				e.Category = strings.TrimSpace(it.Categories[0])
			}
			entries = append(entries, e)
		}
		return entries, nil
	case KindSitemap, "":
		items, err := sitemap.Parse([]byte(body))
		if err != nil {
			return nil, err
		}
		entries := make([]Entry, 0, len(items))
		for _, it := range items {
			entries = append(entries, Entry{URL: it.Loc, Title: it.Title, Published: it.Published()})
		}
		return entries, nil
	}
	return nil, fmt.Errorf("news: unsupported listing kind %q", info.Kind)
}

// PublishedOn keeps entries whose publication date starts with day's date
// in Dhaka time, preserving order.
func PublishedOn(entries []Entry, day time.Time) []Entry {
	prefix := day.In(Dhaka).Format(DateLayout)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(strings.TrimSpace(e.Published), prefix) {
			out = append(out, e)
		}
	}
	return out
}
