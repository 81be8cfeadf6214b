package http_fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/khobor/tools/web_fetch/models"
)

func TestExecSendsHeadersAndReadsBody(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><p>খবর</p></body></html>"))
	}))
	defer srv.Close()

	f := New(2*time.Second, "TestAgent/1.0", 1<<20)
	res, err := f.Exec(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if gotUA != "TestAgent/1.0" {
		t.Fatalf("user agent not sent, got %q", gotUA)
	}
	if !strings.Contains(gotAccept, "text/html") {
		t.Fatalf("accept header missing html, got %q", gotAccept)
	}
	if !res.IsHTML() || !strings.Contains(res.HTML, "খবর") {
		t.Fatalf("unexpected result %#v", res)
	}
	if res.HTMLHash == "" || res.Status != http.StatusOK {
		t.Fatalf("expected hash and status, got %#v", res)
	}
}

func TestExecNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(time.Second, "ua", 1024).Exec(context.Background(), srv.URL)
	var fe *models.FetchError
	if !errors.As(err, &fe) || fe.Status != http.StatusNotFound {
		t.Fatalf("expected FetchError with 404, got %v", err)
	}
}

func TestExecTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	start := time.Now()
	_, err := New(100*time.Millisecond, "ua", 1024).Exec(context.Background(), srv.URL)
	var fe *models.FetchError
	if !errors.As(err, &fe) || fe.Status != 0 {
		t.Fatalf("expected transport FetchError, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout not enforced")
	}
}

func TestExecCapsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer srv.Close()

	res, err := New(time.Second, "ua", 100).Exec(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if len(res.HTML) != 100 {
		t.Fatalf("expected body capped at 100 bytes, got %d", len(res.HTML))
	}
}
