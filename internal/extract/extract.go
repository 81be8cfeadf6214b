// Package extract locates the main article body of a news page without any
// knowledge of the publisher's markup.
//
// Every element holding <p> descendants is a candidate. A candidate's score is
// the rune length of its paragraph text, less its link text, less the text of
// paragraphs that sit in noisy containers (sidebars, related lists, comments),
// plus a bonus for article-like names. The best score wins; ties keep the
// earliest candidate in document order so extraction is reproducible. Pages
// whose markup yields nothing usable fall back to a JSON-LD articleBody.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mohammad-safakhou/khobor/internal/helpers"
	"github.com/mohammad-safakhou/khobor/models"
	"golang.org/x/net/html"
)

// Weights tunes candidate scoring.
type Weights struct {
	LinkPenalty   float64 // per rune of link text
	NoisePenalty  float64 // fraction of text removed for noisy containers
	PositiveBonus float64 // fraction of text added for article-like containers
	MinScore      float64 // winners below this fail extraction
}

// DefaultWeights were calibrated against saved pages from the built-in sources.
func DefaultWeights() Weights {
	return Weights{
		LinkPenalty:   1.0,
		NoisePenalty:  0.75,
		PositiveBonus: 0.25,
		MinScore:      100,
	}
}

var (
	strippedTags = "script, style, noscript, iframe, svg, form, button, nav, footer, header, aside, template"

	noisePattern    = regexp.MustCompile(`(?i)sidebar|related|comment|footer|(^|[-_ ])nav|menu|advert|(^|[-_ ])ads?([-_ ]|$)|promo|share|social|subscribe|newsletter|widget|trending|popular|recommend|(^|[-_ ])tags?([-_ ]|$)|breadcrumb`)
	positivePattern = regexp.MustCompile(`(?i)article|story|content|body|detail|post|news|entry`)
)

// Candidate is a scored container considered for the article body.
// Paragraphs is filled for the winner only.
type Candidate struct {
	Selection  *goquery.Selection
	Paragraphs []string
	TextLen    int
	LinkLen    int
	NoisyLen   int
	Score      float64
}

// Extractor is stateless and safe for concurrent use.
type Extractor struct {
	Weights Weights
}

func New(w Weights) *Extractor {
	return &Extractor{Weights: w}
}

// Extract returns the article body as paragraphs joined with "\n".
// It fails with models.ErrExtractionFailed when no candidate reaches MinScore
// and the page carries no JSON-LD articleBody of that length either.
func (e *Extractor) Extract(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", models.ErrExtractionFailed, err)
	}
	structured := structuredBody(doc)

	best := e.Best(doc)
	if best != nil && best.Score >= e.Weights.MinScore && len(best.Paragraphs) > 0 {
		return strings.Join(best.Paragraphs, "\n"), nil
	}
	if structured != "" && float64(utf8.RuneCountInString(structured)) >= e.Weights.MinScore {
		return structured, nil
	}
	if best == nil {
		return "", fmt.Errorf("%w: no paragraph container found", models.ErrExtractionFailed)
	}
	return "", fmt.Errorf("%w: best candidate scored %.1f, below %.1f", models.ErrExtractionFailed, best.Score, e.Weights.MinScore)
}

type tally struct {
	text, links, noisy int
}

// Best strips boilerplate elements from doc and returns the top candidate,
// or nil when the page has no paragraphs.
func (e *Extractor) Best(doc *goquery.Document) *Candidate {
	doc.Find(strippedTags).Remove()

	// Credit every paragraph to each of its ancestors below <html>. A
	// paragraph counts as noisy for an ancestor when any element on the way
	// up to it, the ancestor included, has a noisy name.
	tallies := make(map[*html.Node]*tally)
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := utf8.RuneCountInString(collapseSpace(p.Text()))
		if text == 0 {
			return
		}
		links := linkRunes(p)
		noisy := noisePattern.MatchString(attrNames(p))
		p.ParentsUntil("html").Each(func(_ int, a *goquery.Selection) {
			noisy = noisy || noisePattern.MatchString(attrNames(a))
			t := tallies[a.Nodes[0]]
			if t == nil {
				t = &tally{}
				tallies[a.Nodes[0]] = t
			}
			t.text += text
			t.links += links
			if noisy {
				t.noisy += text
			}
		})
	})

	var best *Candidate
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		t := tallies[s.Nodes[0]]
		if t == nil {
			return
		}
		c := e.score(s, t)
		if best == nil || c.Score > best.Score {
			best = c
		}
	})
	if best != nil {
		best.Paragraphs = paragraphs(best.Selection)
	}
	return best
}

func (e *Extractor) score(s *goquery.Selection, t *tally) *Candidate {
	c := &Candidate{Selection: s, TextLen: t.text, LinkLen: t.links, NoisyLen: t.noisy}
	if parentNoisy(s) {
		c.NoisyLen = t.text
	}
	text := float64(c.TextLen)
	clean := float64(c.TextLen - c.NoisyLen)
	c.Score = text - e.Weights.LinkPenalty*float64(c.LinkLen) - e.Weights.NoisePenalty*float64(c.NoisyLen)
	if clean > 0 && positivePattern.MatchString(attrNames(s)) {
		c.Score += e.Weights.PositiveBonus * clean
	}
	return c
}

// paragraphs collects the non-empty paragraphs below s in document order.
// Paragraphs inside a noisy container nested in s are left out unless s is
// itself noisy.
func paragraphs(s *goquery.Selection) []string {
	keepNoisy := noisePattern.MatchString(attrNames(s)) || parentNoisy(s)
	var out []string
	s.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := collapseSpace(p.Text())
		if text == "" {
			return
		}
		if !keepNoisy && noisyBetween(p, s) {
			return
		}
		out = append(out, text)
	})
	return out
}

func noisyBetween(p, top *goquery.Selection) bool {
	if noisePattern.MatchString(attrNames(p)) {
		return true
	}
	noisy := false
	p.ParentsUntilSelection(top).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		noisy = noisePattern.MatchString(attrNames(a))
		return !noisy
	})
	return noisy
}

// parentNoisy checks the direct parent below <body>.
func parentNoisy(s *goquery.Selection) bool {
	parent := s.Parent()
	return parent.Length() > 0 && !parent.Is("body, html") && noisePattern.MatchString(attrNames(parent))
}

func linkRunes(p *goquery.Selection) int {
	n := 0
	p.Find("a").Each(func(_ int, a *goquery.Selection) {
		n += utf8.RuneCountInString(collapseSpace(a.Text()))
	})
	return n
}

// attrNames joins the attributes that name an element's role.
func attrNames(s *goquery.Selection) string {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	itemprop, _ := s.Attr("itemprop")
	return strings.TrimSpace(class + " " + id + " " + itemprop)
}

// structuredBody returns the first JSON-LD articleBody on the page, one
// paragraph per line.
func structuredBody(doc *goquery.Document) string {
	var body string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var v interface{}
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return true
		}
		body = articleBody(v)
		return body == ""
	})
	if body == "" {
		return ""
	}
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if line = helpers.PlainText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// articleBody searches a decoded JSON-LD value, @graph arrays included.
func articleBody(v interface{}) string {
	switch x := v.(type) {
	case map[string]interface{}:
		if b, ok := x["articleBody"].(string); ok && strings.TrimSpace(b) != "" {
			return b
		}
		for _, child := range x {
			if b := articleBody(child); b != "" {
				return b
			}
		}
	case []interface{}:
		for _, child := range x {
			if b := articleBody(child); b != "" {
				return b
			}
		}
	}
	return ""
}

// collapseSpace trims and folds whitespace runs into one space. Letters and
// combining marks, including Bangla vowel signs, are left untouched.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
