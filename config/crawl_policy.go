package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CrawlPolicyConfig restricts which hosts and paths the crawler may visit.
type CrawlPolicyConfig struct {
	Disallow      []string `mapstructure:"disallow" json:"disallow"`
	DisallowPaths []string `mapstructure:"disallow_paths" json:"disallow_paths"`
}

// Normalize cleans entries and removes duplicates.
func (c CrawlPolicyConfig) Normalize() CrawlPolicyConfig {
	norm := c
	norm.Disallow = sanitizeDomainList(norm.Disallow)
	norm.DisallowPaths = sanitizePathList(norm.DisallowPaths)
	return norm
}

// Validate ensures configured policy entries are well-formed.
func (c CrawlPolicyConfig) Validate() error {
	for _, p := range c.DisallowPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("crawl policy path %q must start with /", p)
		}
	}
	for _, raw := range c.Disallow {
		if NormalizeHost(raw) == "" {
			return fmt.Errorf("crawl policy disallow entry must not be empty")
		}
	}
	return nil
}

// Allowed reports whether rawURL may be crawled.
func (c CrawlPolicyConfig) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := NormalizeHost(u.Host)
	for _, blocked := range c.Disallow {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return false
		}
	}
	for _, p := range c.DisallowPaths {
		if strings.HasPrefix(u.Path, p) {
			return false
		}
	}
	return true
}

func sanitizeDomainList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		host := NormalizeHost(raw)
		if host == "" {
			continue
		}
		seen[host] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for host := range seen {
		out = append(out, host)
	}
	sort.Strings(out)
	return out
}

func sanitizePathList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, raw := range values {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// NormalizeHost lowercases value, strips scheme, port and a leading "www.".
func NormalizeHost(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		if u, err := url.Parse(value); err == nil && u.Host != "" {
			value = u.Host
		}
	}
	if i := strings.IndexByte(value, ':'); i >= 0 {
		value = value[:i]
	}
	return strings.TrimPrefix(value, "www.")
}
