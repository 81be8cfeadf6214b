package helpers

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

var trackingQueryParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"gclid":        {},
	"fbclid":       {},
	"amp":          {},
}

// CanonicalURL normalises a URL string so the same story reached through
// different links compares equal. It lowercases scheme/host, strips "www.",
// default ports, fragments, tracking parameters and trailing slashes.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", errors.New("url missing host")
	}
	parsed.Scheme = "https"
	parsed.Host = Host(raw)

	cleanPath := path.Clean("/" + parsed.Path)
	if cleanPath == "." {
		cleanPath = "/"
	}
	parsed.Path = cleanPath
	parsed.RawPath = ""
	parsed.Fragment = ""

	query := parsed.Query()
	for key := range query {
		if _, drop := trackingQueryParams[strings.ToLower(key)]; drop {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// Host returns the lower-cased host of rawURL without port or "www." prefix.
// It returns "" when rawURL has no host.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// IsAbsoluteHTTP reports whether rawURL is an absolute http(s) URL.
func IsAbsoluteHTTP(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResolveReference makes ref absolute against base.
func ResolveReference(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

// CategoryFromURL infers a section name from a publisher URL path: the first
// segment that is neither "news" nor the trailing slug/id.
func CategoryFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return ""
	}
	for _, p := range parts[:len(parts)-1] {
		p = strings.ToLower(p)
		if p == "news" || isNumeric(p) {
			continue
		}
		return p
	}
	return ""
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
