// Package sitemap reads XML sitemaps, including the Google News extension
// (news:news/news:title, news:publication_date) publishers use for their
// latest-articles listing.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Entry is one <url> element.
type Entry struct {
	Loc             string
	Title           string
	PublicationDate string
	Keywords        string
	LastMod         string
}

type urlset struct {
	URLs []struct {
		Loc     string `xml:"loc"`
		LastMod string `xml:"lastmod"`
		News    struct {
			Title           string `xml:"title"`
			PublicationDate string `xml:"publication_date"`
			Keywords        string `xml:"keywords"`
		} `xml:"news"`
	} `xml:"url"`
	// Present when the document is a sitemap index rather than a urlset.
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

// Parse decodes a urlset or sitemapindex document. Entries keep document
// order. Index documents yield entries with only Loc set.
//
// Publisher sitemaps are frequently not well formed (bare ampersands, HTML
// entities in titles), so the decoder runs in non-strict mode.
func Parse(data []byte) ([]Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("sitemap: empty document")
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	// Encodings other than UTF-8 are passed through unchanged; the fetcher
	// has already transcoded the body.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var doc urlset
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("sitemap: decode: %w", err)
	}

	entries := make([]Entry, 0, len(doc.URLs)+len(doc.Sitemaps))
	for _, u := range doc.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			continue
		}
		entries = append(entries, Entry{
			Loc:             loc,
			Title:           strings.TrimSpace(u.News.Title),
			PublicationDate: strings.TrimSpace(u.News.PublicationDate),
			Keywords:        strings.TrimSpace(u.News.Keywords),
			LastMod:         strings.TrimSpace(u.LastMod),
		})
	}
	for _, s := range doc.Sitemaps {
		if loc := strings.TrimSpace(s.Loc); loc != "" {
			entries = append(entries, Entry{Loc: loc})
		}
	}
	return entries, nil
}

// Published reports the entry's date, preferring the news publication date.
func (e Entry) Published() string {
	if e.PublicationDate != "" {
		return e.PublicationDate
	}
	return e.LastMod
}
