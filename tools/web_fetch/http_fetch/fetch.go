package http_fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/khobor/tools/web_fetch/models"
	"golang.org/x/net/html/charset"
)

const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Fetch performs plain GET requests.
type Fetch struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

func New(timeout time.Duration, userAgent string, maxBodyBytes int64) *Fetch {
	return &Fetch{
		client:       &http.Client{Timeout: timeout},
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
	}
}

func (f *Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	if strings.TrimSpace(url) == "" {
		return models.Result{}, &models.FetchError{URL: url, Err: errors.New("empty url")}
	}
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Result{}, &models.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,bn;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return models.Result{}, &models.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	res := models.Result{
		URL:         url,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Status:      resp.StatusCode,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return res, &models.FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodyBytes), res.ContentType)
	if err != nil {
		return res, &models.FetchError{URL: url, Err: fmt.Errorf("decode charset: %w", err)}
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return res, &models.FetchError{URL: url, Err: err}
	}

	sum := sha1.Sum(raw)
	res.HTML = string(raw)
	res.HTMLHash = hex.EncodeToString(sum[:])
	res.FetchMS = int(time.Since(t0) / time.Millisecond)
	return res, nil
}
