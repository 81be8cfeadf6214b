package models

import "strings"

// Source identifies a news publisher that exposes a headline listing.
type Source string

const (
	SourceDailyStar    Source = "dailystar"
	SourceDhakaTribune Source = "dhakatribune"
	SourceProthomAlo   Source = "prothomalo"
	SourceJugantor     Source = "jugantor"

	// SourceAll selects every configured source.
	SourceAll Source = "all"
)

// ParseSource normalises a user supplied source id.
func ParseSource(raw string) Source {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
	switch s {
	case "", "all", "any":
		return SourceAll
	case "thedailystar":
		return SourceDailyStar
	case "tribune":
		return SourceDhakaTribune
	case "prothomalo", "palo":
		return SourceProthomAlo
	}
	return Source(s)
}

// Headline is one ranked news item produced by a listing fetch.
type Headline struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Source   Source `json:"source"`
	Category string `json:"category,omitempty"`
	Position int    `json:"position"`
}

// ArticleContent is the cleaned text of one article page. It is never cached.
type ArticleContent struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Body     string `json:"body_text"`
	Source   Source `json:"source,omitempty"`
	Byline   string `json:"byline,omitempty"`
	SiteName string `json:"site_name,omitempty"`
}

// Paragraphs splits Body into its non-empty paragraphs.
func (a ArticleContent) Paragraphs() []string {
	var out []string
	for _, p := range strings.Split(a.Body, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
