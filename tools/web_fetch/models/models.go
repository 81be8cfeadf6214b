package models

import (
	"fmt"
	"mime"
	"strings"
)

// Result is one retrieved page.
type Result struct {
	URL         string `json:"url"`
	FinalURL    string `json:"final_url"`
	HTML        string `json:"-"`
	ContentType string `json:"content_type"`
	HTMLHash    string `json:"html_hash"`
	Status      int    `json:"status"`
	FetchMS     int    `json:"fetch_ms"`
}

// MediaType returns the lower-cased media type without parameters.
func (r Result) MediaType() string {
	if r.ContentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(r.ContentType, ";")[0]))
	}
	return mt
}

// IsHTML reports whether the response declared an HTML document.
// A missing content type is treated as HTML when the body looks like markup.
func (r Result) IsHTML() bool {
	switch r.MediaType() {
	case "text/html", "application/xhtml+xml":
		return true
	case "":
		head := strings.ToLower(strings.TrimSpace(prefix(r.HTML, 512)))
		return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html")
	}
	return false
}

// IsListing reports whether the response can hold a headline listing:
// an HTML page, a sitemap or an RSS/Atom feed.
func (r Result) IsListing() bool {
	if r.IsHTML() {
		return true
	}
	switch mt := r.MediaType(); {
	case mt == "text/xml", mt == "application/xml", strings.HasSuffix(mt, "+xml"):
		return true
	case mt == "":
		return strings.HasPrefix(strings.TrimSpace(prefix(r.HTML, 64)), "<?xml")
	}
	return false
}

func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// FetchError reports a failed retrieval. Status is zero for transport errors.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
