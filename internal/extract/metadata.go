package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Metadata is descriptive information about an article page.
type Metadata struct {
	Title    string
	Byline   string
	SiteName string
}

// ReadMetadata takes title, byline and site name from go-readability and falls
// back to og:title, <title> and the first <h1> for the title.
func ReadMetadata(html, pageURL string) Metadata {
	var md Metadata
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	if article, err := readability.FromReader(strings.NewReader(html), u); err == nil {
		md.Title = collapseSpace(article.Title)
		md.Byline = collapseSpace(article.Byline)
		md.SiteName = collapseSpace(article.SiteName)
	}
	if md.Title != "" {
		return md
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return md
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(og) != "" {
		md.Title = collapseSpace(og)
	} else if t := collapseSpace(doc.Find("title").First().Text()); t != "" {
		md.Title = t
	} else {
		md.Title = collapseSpace(doc.Find("h1").First().Text())
	}
	return md
}
