// Package feed reads RSS and Atom listings.
package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Item is one feed entry in document order.
type Item struct {
	Link       string
	Title      string
	Categories []string
	Published  string
}

// Parser wraps a gofeed parser. The zero value is not usable; call NewParser.
type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{parser: gofeed.NewParser()}
}

// Parse decodes an RSS or Atom document. Items without a link are skipped.
func (p *Parser) Parse(data string) ([]Item, error) {
	f, err := p.parser.ParseString(data)
	if err != nil {
		return nil, fmt.Errorf("feed: parse: %w", err)
	}
	items := make([]Item, 0, len(f.Items))
	for _, it := range f.Items {
		link := strings.TrimSpace(it.Link)
		if link == "" && len(it.Links) > 0 {
			link = strings.TrimSpace(it.Links[0])
		}
		if link == "" {
			continue
		}
		published := it.Published
		if it.PublishedParsed != nil {
			published = it.PublishedParsed.Format(time.RFC3339)
		} else if it.UpdatedParsed != nil {
			published = it.UpdatedParsed.Format(time.RFC3339)
		}
		items = append(items, Item{
			Link:       link,
			Title:      strings.TrimSpace(it.Title),
			Categories: it.Categories,
			Published:  published,
		})
	}
	return items, nil
}
