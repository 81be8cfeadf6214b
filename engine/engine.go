// Package engine exposes the two conversational operations: list the top N
// headlines into a session, and fetch the article a follow-up refers to.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/khobor/internal/helpers"
	"github.com/mohammad-safakhou/khobor/internal/resolver"
	"github.com/mohammad-safakhou/khobor/internal/telemetry"
	"github.com/mohammad-safakhou/khobor/internal/topics"
	"github.com/mohammad-safakhou/khobor/models"
	"github.com/mohammad-safakhou/khobor/session"
	"github.com/mohammad-safakhou/khobor/session/session_object"
)

// Crawler is the retrieval side the desk depends on.
type Crawler interface {
	Sources() []models.Source
	FetchHeadlines(ctx context.Context, source models.Source, count int) ([]models.Headline, error)
	FetchArticle(ctx context.Context, url string) (models.ArticleContent, error)
}

// Desk binds a crawler to per-session headline caches. Concurrent calls for
// different sessions never share state.
type Desk struct {
	crawler Crawler
	store   session.Store
	topics  *topics.Matcher
	metrics *telemetry.Metrics
	logger  *log.Logger
}

func NewDesk(crawler Crawler, store session.Store, matcher *topics.Matcher, metrics *telemetry.Metrics, logger *log.Logger) *Desk {
	if logger == nil {
		logger = log.New(log.Writer(), "[DESK] ", log.LstdFlags)
	}
	if matcher == nil {
		matcher = topics.NewMatcher(logger)
	}
	if metrics == nil {
		metrics = telemetry.NewMetrics(nil)
	}
	return &Desk{crawler: crawler, store: store, topics: matcher, metrics: metrics, logger: logger}
}

func (d *Desk) CreateSession(ctx context.Context) (string, error) {
	return d.store.Create(ctx)
}

func (d *Desk) CloseSession(ctx context.Context, id string) error {
	return d.store.Delete(ctx, id)
}

// ListTopN fetches up to n headlines from source (or every source for
// models.SourceAll) and makes them the session's cache. On failure the
// previous cache is left as it was.
func (d *Desk) ListTopN(ctx context.Context, sessionID string, source models.Source, n int) ([]models.Headline, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", models.ErrInvalidArgument, n)
	}
	if _, err := d.store.Cache(ctx, sessionID); err != nil {
		return nil, err
	}

	var (
		headlines []models.Headline
		err       error
	)
	if source == models.SourceAll {
		headlines, err = d.listAll(ctx, n)
	} else {
		headlines, err = d.crawler.FetchHeadlines(ctx, source, n)
	}
	if err != nil {
		d.logger.Printf("session %s: list %s failed: %v", sessionID, source, err)
		return nil, err
	}

	if err := d.store.Replace(ctx, sessionID, headlines); err != nil {
		return nil, err
	}
	d.logger.Printf("session %s: cached %d headlines from %s", sessionID, len(headlines), source)
	return session_object.NewHeadlineCache(headlines).All(), nil
}

// listAll fetches each source in turn and interleaves them round-robin so
// the first n headlines cover every source. Failed sources are skipped
// unless every source fails.
func (d *Desk) listAll(ctx context.Context, n int) ([]models.Headline, error) {
	sources := d.crawler.Sources()
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no sources configured", models.ErrSourceUnavailable)
	}

	var (
		lists [][]models.Headline
		errs  []error
	)
	for _, src := range sources {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		list, err := d.crawler.FetchHeadlines(ctx, src, n)
		if err != nil {
			d.logger.Printf("skipping %s: %v", src, err)
			errs = append(errs, err)
			continue
		}
		lists = append(lists, list)
	}
	if len(lists) == 0 {
		return nil, fmt.Errorf("%w: every source failed: %w", models.ErrSourceUnavailable, errors.Join(errs...))
	}

	out := make([]models.Headline, 0, n)
	seen := make(map[string]struct{})
	for i := 0; len(out) < n; i++ {
		progressed := false
		for _, list := range lists {
			if i >= len(list) || len(out) == n {
				continue
			}
			progressed = true
			h := list[i]
			key, err := helpers.CanonicalURL(h.URL)
			if err != nil {
				key = h.URL
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			h.Position = len(out) + 1
			out = append(out, h)
		}
		if !progressed {
			break
		}
	}
	return out, nil
}

// ResolveHeadline returns the cached headline reference points to. With a
// non-empty category the reference is resolved against the headlines of
// that category only ("the last sports one").
func (d *Desk) ResolveHeadline(ctx context.Context, sessionID, reference, category string) (models.Headline, error) {
	cache, err := d.store.Cache(ctx, sessionID)
	if err != nil {
		return models.Headline{}, err
	}
	if category == "" {
		pos, err := resolver.Resolve(reference, cache.Len())
		d.metrics.Resolutions.WithLabelValues(telemetry.Outcome(err)).Inc()
		if err != nil {
			return models.Headline{}, err
		}
		return cache.Get(pos)
	}

	listing, err := d.topics.Filter(cache.All(), category)
	if err != nil {
		return models.Headline{}, err
	}
	pos, err := resolver.Resolve(reference, len(listing))
	d.metrics.Resolutions.WithLabelValues(telemetry.Outcome(err)).Inc()
	if err != nil {
		return models.Headline{}, err
	}
	// Filtered headlines keep their cache positions.
	return cache.Get(listing[pos-1].Position)
}

// GetArticle resolves reference against the session cache and fetches the
// article. Article content is never cached.
func (d *Desk) GetArticle(ctx context.Context, sessionID, reference, category string) (article models.ArticleContent, err error) {
	defer func() {
		d.metrics.ArticleRequests.WithLabelValues(telemetry.Outcome(err)).Inc()
	}()

	h, err := d.ResolveHeadline(ctx, sessionID, reference, category)
	if err != nil {
		return models.ArticleContent{}, err
	}
	article, err = d.crawler.FetchArticle(ctx, h.URL)
	if err != nil {
		d.logger.Printf("session %s: article %d (%s) failed: %v", sessionID, h.Position, h.URL, err)
		return models.ArticleContent{}, err
	}
	if article.Title == "" {
		article.Title = h.Title
	}
	if article.Source == "" {
		article.Source = h.Source
	}
	return article, nil
}
