package chromedp

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/mohammad-safakhou/khobor/tools/web_fetch/models"
)

// Fetch renders pages in headless Chrome for publishers that build their
// article body with scripts. Each call starts and tears down its own browser.
type Fetch struct {
	Timeout   time.Duration
	UserAgent string
}

func (f Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	if strings.TrimSpace(url) == "" {
		return models.Result{}, &models.FetchError{URL: url, Err: errors.New("empty url")}
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()
	t0 := time.Now()

	html, finalURL, err := fetchHTML(ctx, url, f.UserAgent)
	if err != nil {
		return models.Result{URL: url}, &models.FetchError{URL: url, Err: err}
	}

	sum := sha1.Sum([]byte(html))
	return models.Result{
		URL:         url,
		FinalURL:    finalURL,
		HTML:        html,
		ContentType: "text/html; charset=utf-8",
		HTMLHash:    hex.EncodeToString(sum[:]),
		Status:      200,
		FetchMS:     int(time.Since(t0) / time.Millisecond),
	}, nil
}

func fetchHTML(ctx context.Context, url, userAgent string) (string, string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(userAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html, finalURL string
	err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, finalURL, err
}
