// Package crawler retrieves headline listings and article bodies. It composes
// a page fetcher, the heuristic body extractor and per-site cleanup rules.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/mohammad-safakhou/khobor/config"
	"github.com/mohammad-safakhou/khobor/internal/extract"
	"github.com/mohammad-safakhou/khobor/internal/helpers"
	"github.com/mohammad-safakhou/khobor/internal/siterules"
	"github.com/mohammad-safakhou/khobor/internal/telemetry"
	"github.com/mohammad-safakhou/khobor/models"
	"github.com/mohammad-safakhou/khobor/news"
	"github.com/mohammad-safakhou/khobor/tools/web_fetch"
	fetchmodels "github.com/mohammad-safakhou/khobor/tools/web_fetch/models"
)

// Options wires a Crawler. Fetcher and Catalogue are required.
type Options struct {
	Fetcher          web_fetch.WebFetcher
	Catalogue        *news.Catalogue
	Extractor        *extract.Extractor
	Rules            *siterules.Registry
	Policy           config.CrawlPolicyConfig
	DateFallbackDays int
	Metrics          *telemetry.Metrics
	Logger           *log.Logger
	// Now is the clock used to pick dated listings.
	Now func() time.Time
}

type Crawler struct {
	fetcher      web_fetch.WebFetcher
	catalogue    *news.Catalogue
	extractor    *extract.Extractor
	rules        *siterules.Registry
	policy       config.CrawlPolicyConfig
	fallbackDays int
	metrics      *telemetry.Metrics
	logger       *log.Logger
	now          func() time.Time
}

func New(opts Options) (*Crawler, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("crawler: fetcher is required")
	}
	if opts.Catalogue == nil {
		return nil, errors.New("crawler: catalogue is required")
	}
	c := &Crawler{
		fetcher:      opts.Fetcher,
		catalogue:    opts.Catalogue,
		extractor:    opts.Extractor,
		rules:        opts.Rules,
		policy:       opts.Policy.Normalize(),
		fallbackDays: opts.DateFallbackDays,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		now:          opts.Now,
	}
	if c.extractor == nil {
		c.extractor = extract.New(extract.DefaultWeights())
	}
	if c.rules == nil {
		c.rules = siterules.Default()
	}
	if c.metrics == nil {
		c.metrics = telemetry.NewMetrics(nil)
	}
	if c.logger == nil {
		c.logger = log.New(log.Writer(), "[CRAWLER] ", log.LstdFlags)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.fallbackDays < 0 {
		c.fallbackDays = 0
	}
	return c, nil
}

// NewFromConfig builds the fetcher backend and source catalogue described by cfg.
func NewFromConfig(cfg *config.Config, metrics *telemetry.Metrics, logger *log.Logger) (*Crawler, error) {
	fetcher, err := web_fetch.NewWebFetcher(web_fetch.FetcherType(cfg.Crawler.Backend), web_fetch.Options{
		Timeout:      cfg.Crawler.Timeout,
		UserAgent:    cfg.Crawler.UserAgent,
		MaxBodyBytes: cfg.Crawler.MaxBodyBytes,
	})
	if err != nil {
		return nil, err
	}
	catalogue, err := news.FromConfig(cfg.Sources)
	if err != nil {
		return nil, err
	}
	w := cfg.Crawler.Extraction
	return New(Options{
		Fetcher:   fetcher,
		Catalogue: catalogue,
		Extractor: extract.New(extract.Weights{
			LinkPenalty:   w.LinkPenalty,
			NoisePenalty:  w.NoisePenalty,
			PositiveBonus: w.PositiveBonus,
			MinScore:      w.MinScore,
		}),
		Policy:           cfg.Security.CrawlPolicy,
		DateFallbackDays: cfg.Sources.DateFallbackDays,
		Metrics:          metrics,
		Logger:           logger,
	})
}

// Sources lists the catalogue's source ids in listing order.
func (c *Crawler) Sources() []models.Source {
	infos := c.catalogue.Sources()
	ids := make([]models.Source, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.ID)
	}
	return ids
}

// FetchArticle downloads url and returns its cleaned body text. Transport
// errors and non-HTML responses wrap models.ErrFetchFailed; pages without a
// recognisable body wrap models.ErrExtractionFailed.
func (c *Crawler) FetchArticle(ctx context.Context, url string) (models.ArticleContent, error) {
	if !helpers.IsAbsoluteHTTP(url) {
		return models.ArticleContent{}, fmt.Errorf("%w: %q is not an absolute http(s) url", models.ErrFetchFailed, url)
	}
	if !c.policy.Allowed(url) {
		return models.ArticleContent{}, fmt.Errorf("%w: %s is disallowed by crawl policy", models.ErrFetchFailed, url)
	}

	res, err := c.fetch(ctx, "article", url)
	if err != nil {
		return models.ArticleContent{}, fmt.Errorf("%w: %w", models.ErrFetchFailed, err)
	}
	if !res.IsHTML() {
		return models.ArticleContent{}, fmt.Errorf("%w: %s returned %q, not html", models.ErrFetchFailed, url, res.ContentType)
	}

	page := unescapeMarkup(res.HTML)
	body, err := c.extractor.Extract(page)
	if err != nil {
		c.logger.Printf("extract %s: %v", url, err)
		return models.ArticleContent{}, fmt.Errorf("%s: %w", url, err)
	}

	finalURL := res.FinalURL
	if finalURL == "" {
		finalURL = url
	}
	host := helpers.Host(finalURL)
	if rule, ok := c.rules.Match(host); ok {
		body = rule.Transform(body)
		c.logger.Printf("applied %s rule to %s", rule.Name, url)
	}
	if strings.TrimSpace(body) == "" {
		return models.ArticleContent{}, fmt.Errorf("%w: %s: body empty after site cleanup", models.ErrExtractionFailed, url)
	}

	meta := extract.ReadMetadata(page, finalURL)
	return models.ArticleContent{
		URL:      url,
		Title:    meta.Title,
		Body:     body,
		Source:   c.sourceForHost(host),
		Byline:   meta.Byline,
		SiteName: meta.SiteName,
	}, nil
}

// FetchHeadlines returns at most count headlines from source's listing with
// positions 1..len in listing order. Dated listings fall back to earlier days
// while they yield nothing. Listing failures wrap models.ErrSourceUnavailable.
func (c *Crawler) FetchHeadlines(ctx context.Context, source models.Source, count int) ([]models.Headline, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: headline count must be positive, got %d", models.ErrInvalidArgument, count)
	}
	info, err := c.catalogue.Lookup(source)
	if err != nil {
		return nil, err
	}

	templated := strings.Contains(info.ListingURL, "{date}")
	days := 0
	if info.Dated() {
		days = c.fallbackDays
	}
	today := c.now()

	var (
		listing []news.Entry
		fetched bool
		lastErr error
	)
	for d := 0; d <= days; d++ {
		day := today.AddDate(0, 0, -d)
		if templated || !fetched {
			entries, err := c.listing(ctx, info, day)
			if err != nil {
				lastErr = err
				if !templated || ctx.Err() != nil {
					break
				}
				continue
			}
			listing, fetched = entries, true
		}
		entries := listing
		if info.FilterByDate {
			entries = news.PublishedOn(listing, day)
		}
		if headlines := c.headlines(ctx, info, entries, count); len(headlines) > 0 {
			c.metrics.HeadlinesListed.WithLabelValues(string(info.ID)).Add(float64(len(headlines)))
			return headlines, nil
		}
		if days > 0 {
			c.logger.Printf("%s: no headlines for %s, trying previous day", info.ID, day.In(news.Dhaka).Format(news.DateLayout))
		}
	}
	if !fetched {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrSourceUnavailable, info.ID, lastErr)
	}
	return []models.Headline{}, nil
}

func (c *Crawler) listing(ctx context.Context, info news.SourceInfo, day time.Time) ([]news.Entry, error) {
	url := info.URLFor(day)
	res, err := c.fetch(ctx, "listing", url)
	if err != nil {
		return nil, err
	}
	if !res.IsListing() {
		return nil, fmt.Errorf("listing %s returned %q", url, res.ContentType)
	}
	return news.ParseListing(info, res.HTML)
}

func (c *Crawler) headlines(ctx context.Context, info news.SourceInfo, entries []news.Entry, count int) []models.Headline {
	out := make([]models.Headline, 0, min(count, len(entries)))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if len(out) == count || ctx.Err() != nil {
			break
		}
		link := strings.TrimSpace(e.URL)
		if link == "" {
			continue
		}
		if !helpers.IsAbsoluteHTTP(link) {
			abs, err := helpers.ResolveReference(info.ListingURL, link)
			if err != nil {
				continue
			}
			link = abs
		}
		if !helpers.IsAbsoluteHTTP(link) || !c.policy.Allowed(link) {
			continue
		}
		key, err := helpers.CanonicalURL(link)
		if err != nil {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		title := helpers.PlainText(e.Title)
		if title == "" && info.FetchTitles {
			title = c.pageTitle(ctx, link)
		}
		if title == "" {
			continue
		}
		seen[key] = struct{}{}

		category := strings.ToLower(strings.TrimSpace(e.Category))
		if category == "" {
			category = helpers.CategoryFromURL(link)
		}
		out = append(out, models.Headline{
			Title:    title,
			URL:      link,
			Source:   info.ID,
			Category: category,
			Position: len(out) + 1,
		})
	}
	return out
}

// pageTitle fetches url for its title. Failures yield "".
func (c *Crawler) pageTitle(ctx context.Context, url string) string {
	res, err := c.fetch(ctx, "title", url)
	if err != nil || !res.IsHTML() {
		return ""
	}
	return helpers.PlainText(extract.ReadMetadata(res.HTML, url).Title)
}

func (c *Crawler) fetch(ctx context.Context, kind, url string) (fetchmodels.Result, error) {
	start := time.Now()
	res, err := c.fetcher.Exec(ctx, url)
	c.metrics.FetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
		c.logger.Printf("%s fetch %s: %v", kind, url, err)
	}
	c.metrics.FetchTotal.WithLabelValues(kind, outcome).Inc()
	return res, err
}

func (c *Crawler) sourceForHost(host string) models.Source {
	for _, info := range c.catalogue.Sources() {
		if host == info.Domain || strings.HasSuffix(host, "."+info.Domain) {
			return info.ID
		}
	}
	return ""
}

// unescapeMarkup decodes pages delivered as entity-escaped HTML.
func unescapeMarkup(page string) string {
	head := strings.ToLower(page[:min(len(page), 200)])
	if strings.Contains(page, "&lt;") && strings.Contains(page, "&gt;") && !strings.Contains(head, "<html") {
		return html.UnescapeString(page)
	}
	return page
}
