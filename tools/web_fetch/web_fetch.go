package web_fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/khobor/tools/web_fetch/chromedp"
	"github.com/mohammad-safakhou/khobor/tools/web_fetch/http_fetch"
	"github.com/mohammad-safakhou/khobor/tools/web_fetch/models"
)

const (
	DefaultTimeout      = 8 * time.Second
	DefaultMaxBodyBytes = 5 << 20
)

// WebFetcher retrieves one page per call. Implementations make a single
// attempt bounded by their timeout and never retry.
type WebFetcher interface {
	Exec(ctx context.Context, url string) (models.Result, error)
}

// Error is returned for transport failures and non-2xx statuses.
type Error = models.FetchError

type FetcherType string

const (
	HTTPFetcherType     FetcherType = "http"
	ChromedpFetcherType FetcherType = "chromedp"
)

// Options configures a fetcher backend.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

func NewWebFetcher(fetcherType FetcherType, opts Options) (WebFetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	switch fetcherType {
	case HTTPFetcherType, "":
		return http_fetch.New(opts.Timeout, opts.UserAgent, opts.MaxBodyBytes), nil
	case ChromedpFetcherType:
		return &chromedp.Fetch{Timeout: opts.Timeout, UserAgent: opts.UserAgent}, nil
	default:
		return nil, fmt.Errorf("unsupported fetcher type %q", fetcherType)
	}
}
