// Package topics narrows a headline listing to a user-named topic such as
// "sports" or "খেলা".
package topics

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/search/query"
	"github.com/mohammad-safakhou/khobor/models"
)

// keywords maps each canonical topic to the words that name it, in English and Bangla.
var keywords = map[string][]string{
	"sports":        {"sport", "sports", "cricket", "football", "tennis", "খেলা", "খেলাধুলা", "ক্রিকেট", "ফুটবল"},
	"politics":      {"politics", "political", "election", "রাজনীতি", "নির্বাচন"},
	"business":      {"business", "economy", "economics", "finance", "market", "markets", "trade", "বাণিজ্য", "অর্থনীতি"},
	"technology":    {"technology", "tech", "science", "science-tech", "প্রযুক্তি", "বিজ্ঞান"},
	"international": {"international", "world", "global", "বিশ্ব", "আন্তর্জাতিক"},
	"entertainment": {"entertainment", "showbiz", "culture", "arts", "বিনোদন"},
	"bangladesh":    {"bangladesh", "national", "country", "city", "বাংলাদেশ", "দেশ", "সারাদেশ", "জাতীয়"},
}

// Matcher filters headlines by topic. It is stateless and safe for concurrent use.
type Matcher struct {
	aliases map[string]string
	logger  *log.Logger
}

func NewMatcher(logger *log.Logger) *Matcher {
	if logger == nil {
		logger = log.New(log.Writer(), "[TOPICS] ", log.LstdFlags)
	}
	m := &Matcher{aliases: make(map[string]string), logger: logger}
	for topic, words := range keywords {
		m.aliases[topic] = topic
		for _, w := range words {
			m.aliases[w] = topic
		}
	}
	return m
}

// Canonical maps a topic or category name to its canonical topic. Unknown
// names are returned lower-cased.
func (m *Matcher) Canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if topic, ok := m.aliases[name]; ok {
		return topic
	}
	for _, field := range strings.FieldsFunc(name, func(r rune) bool { return r == ' ' || r == '-' || r == '_' || r == '/' }) {
		if topic, ok := m.aliases[field]; ok {
			return topic
		}
	}
	return name
}

// Filter returns the headlines belonging to topic, in listing order. Headline
// categories are compared first; when none match, titles are searched for the
// topic's keywords. An empty topic returns headlines unchanged.
func (m *Matcher) Filter(headlines []models.Headline, topic string) ([]models.Headline, error) {
	if strings.TrimSpace(topic) == "" {
		return headlines, nil
	}
	want := m.Canonical(topic)

	var out []models.Headline
	for _, h := range headlines {
		if h.Category != "" && m.Canonical(h.Category) == want {
			out = append(out, h)
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	out, err := m.searchTitles(headlines, want, topic)
	if err != nil {
		return nil, fmt.Errorf("topic search: %w", err)
	}
	m.logger.Printf("no category matched %q; title search found %d", topic, len(out))
	return out, nil
}

func (m *Matcher) searchTitles(headlines []models.Headline, canonical, raw string) ([]models.Headline, error) {
	if len(headlines) == 0 {
		return nil, nil
	}
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	defer index.Close()

	batch := index.NewBatch()
	for i, h := range headlines {
		if err := batch.Index(strconv.Itoa(i), map[string]interface{}{"title": h.Title}); err != nil {
			return nil, err
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, err
	}

	terms := append([]string{strings.ToLower(strings.TrimSpace(raw))}, keywords[canonical]...)
	queries := make([]query.Query, 0, len(terms))
	for _, term := range terms {
		q := bleve.NewMatchQuery(term)
		q.SetField("title")
		queries = append(queries, q)
	}
	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), len(headlines), 0, false)
	res, err := index.Search(req)
	if err != nil {
		return nil, err
	}

	hit := make(map[int]bool, len(res.Hits))
	for _, doc := range res.Hits {
		if i, err := strconv.Atoi(doc.ID); err == nil {
			hit[i] = true
		}
	}
	var out []models.Headline
	for i, h := range headlines {
		if hit[i] {
			out = append(out, h)
		}
	}
	return out, nil
}
