package crawler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mohammad-safakhou/khobor/config"
	"github.com/mohammad-safakhou/khobor/models"
	"github.com/mohammad-safakhou/khobor/news"
	"github.com/mohammad-safakhou/khobor/tools/web_fetch"
	"github.com/mohammad-safakhou/khobor/tools/web_fetch/http_fetch"
	fetchmodels "github.com/mohammad-safakhou/khobor/tools/web_fetch/models"
)

type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]fetchmodels.Result
	calls  []string
	errFor map[string]error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]fetchmodels.Result{}, errFor: map[string]error{}}
}

func (f *fakeFetcher) add(url, contentType, body string) {
	f.pages[url] = fetchmodels.Result{URL: url, FinalURL: url, ContentType: contentType, HTML: body, Status: 200}
}

func (f *fakeFetcher) Exec(_ context.Context, url string) (fetchmodels.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if err, ok := f.errFor[url]; ok {
		return fetchmodels.Result{}, err
	}
	res, ok := f.pages[url]
	if !ok {
		return fetchmodels.Result{}, &web_fetch.Error{URL: url, Status: http.StatusNotFound, Err: errors.New("not found")}
	}
	return res, nil
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

var (
	jugantor = news.SourceInfo{
		ID: models.SourceJugantor, Name: "Jugantor", Domain: "jugantor.com",
		Kind: news.KindSitemap, ListingURL: "https://www.jugantor.com/news_sitemap.xml",
	}
	dailyStar = news.SourceInfo{
		ID: models.SourceDailyStar, Name: "The Daily Star", Domain: "thedailystar.net",
		Kind: news.KindSitemap, ListingURL: "https://www.thedailystar.net/googlenews.xml", FilterByDate: true,
	}
	prothomAlo = news.SourceInfo{
		ID: models.SourceProthomAlo, Name: "Prothom Alo", Domain: "prothomalo.com",
		Kind: news.KindSitemap, ListingURL: "https://www.prothomalo.com/sitemap/sitemap-daily-{date}.xml", FetchTitles: true,
	}
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func fixedNow() time.Time { return time.Date(2025, 9, 19, 12, 0, 0, 0, news.Dhaka) }

func newTestCrawler(t *testing.T, f web_fetch.WebFetcher, policy config.CrawlPolicyConfig, infos ...news.SourceInfo) *Crawler {
	t.Helper()
	c, err := New(Options{
		Fetcher:          f,
		Catalogue:        news.NewCatalogue(infos...),
		Policy:           policy,
		DateFallbackDays: 3,
		Logger:           quietLogger(),
		Now:              fixedNow,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func sitemapDoc(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:news="http://www.google.com/schemas/sitemap-news/0.9">` +
		strings.Join(entries, "") + `</urlset>`
}

func sitemapURL(loc, title, date string) string {
	return fmt.Sprintf(`<url><loc>%s</loc><news:news><news:publication_date>%s</news:publication_date><news:title><![CDATA[%s]]></news:title></news:news></url>`, loc, date, title)
}

func TestFetchHeadlinesPositionsLimitAndFiltering(t *testing.T) {
	f := newFakeFetcher()
	f.add(jugantor.ListingURL, "application/xml", sitemapDoc(
		sitemapURL("https://www.jugantor.com/politics/111", "রাজনীতির খবর", ""),
		sitemapURL("https://www.jugantor.com/politics/111?utm_source=fb", "Duplicate", ""),
		sitemapURL("https://www.jugantor.com/api/internal", "Disallowed", ""),
		sitemapURL("https://www.jugantor.com/sports/222", "<b>Tigers</b> win", ""),
		sitemapURL("https://www.jugantor.com/national/333", "", ""),
		sitemapURL("https://www.jugantor.com/economy/444", "Market rallies", ""),
		sitemapURL("https://www.jugantor.com/economy/555", "Not reached", ""),
	))
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{DisallowPaths: []string{"/api/"}}, jugantor)

	got, err := c.FetchHeadlines(context.Background(), models.SourceJugantor, 3)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	want := []struct{ title, category string }{
		{"রাজনীতির খবর", "politics"},
		{"Tigers win", "sports"},
		{"Market rallies", "economy"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d headlines, got %d: %+v", len(want), len(got), got)
	}
	for i, h := range got {
		if h.Position != i+1 || h.Title != want[i].title || h.Category != want[i].category || h.Source != models.SourceJugantor {
			t.Fatalf("headline %d unexpected: %+v", i, h)
		}
	}
}

func TestFetchHeadlinesFewerThanRequested(t *testing.T) {
	f := newFakeFetcher()
	f.add(jugantor.ListingURL, "text/xml; charset=utf-8", sitemapDoc(
		sitemapURL("https://www.jugantor.com/national/1", "One", ""),
		sitemapURL("https://www.jugantor.com/national/2", "Two", ""),
	))
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{}, jugantor)
	got, err := c.FetchHeadlines(context.Background(), models.SourceJugantor, 10)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	if len(got) != 2 || got[1].Position != 2 {
		t.Fatalf("unexpected headlines: %+v", got)
	}
}

func TestFetchHeadlinesResolvesRelativeLinks(t *testing.T) {
	f := newFakeFetcher()
	f.add(jugantor.ListingURL, "application/xml", sitemapDoc(
		sitemapURL("/national/9", "Relative", ""),
		sitemapURL("javascript:void(0)", "Script", ""),
		sitemapURL("https://www.jugantor.com/national/9", "Same story again", ""),
		sitemapURL("https://www.jugantor.com/sports/10", "Absolute", ""),
	))
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{}, jugantor)
	got, err := c.FetchHeadlines(context.Background(), models.SourceJugantor, 5)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 headlines, got %+v", got)
	}
	if got[0].URL != "https://www.jugantor.com/national/9" || got[0].Title != "Relative" || got[0].Category != "national" {
		t.Fatalf("relative link not resolved: %+v", got[0])
	}
	if got[1].Title != "Absolute" || got[1].Position != 2 {
		t.Fatalf("unexpected second headline: %+v", got[1])
	}
}

func TestFetchHeadlinesDateFilterFallsBack(t *testing.T) {
	f := newFakeFetcher()
	f.add(dailyStar.ListingURL, "application/xml", sitemapDoc(
		sitemapURL("https://www.thedailystar.net/news/bangladesh/politics/news/a-1", "Two days old", "2025-09-17T08:00:00+06:00"),
		sitemapURL("https://www.thedailystar.net/sports/cricket/news/b-2", "Also two days old", "2025-09-17T09:00:00+06:00"),
		sitemapURL("https://www.thedailystar.net/news/world/news/c-3", "Too old", "2025-09-10T09:00:00+06:00"),
	))
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{}, dailyStar)

	got, err := c.FetchHeadlines(context.Background(), models.SourceDailyStar, 5)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Two days old" || got[1].Category != "sports" {
		t.Fatalf("unexpected headlines: %+v", got)
	}
	if n := f.count(dailyStar.ListingURL); n != 1 {
		t.Fatalf("static listing should be fetched once, got %d", n)
	}
}

func TestFetchHeadlinesDatedListingNothingRecent(t *testing.T) {
	f := newFakeFetcher()
	f.add(dailyStar.ListingURL, "application/xml", sitemapDoc(
		sitemapURL("https://www.thedailystar.net/news/world/news/c-3", "Too old", "2025-09-01T09:00:00+06:00"),
	))
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{}, dailyStar)
	got, err := c.FetchHeadlines(context.Background(), models.SourceDailyStar, 5)
	if err != nil {
		t.Fatalf("an empty listing is not an error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty, non-nil result, got %#v", got)
	}
}

func titlePage(title string) string {
	return `<html><head><title>` + title + `</title><meta property="og:title" content="` + title + `"></head>` +
		`<body><h1>` + title + `</h1><div class="story"><p>` + strings.Repeat("সংবাদের মূল অংশ। ", 20) + `</p></div></body></html>`
}

func TestFetchHeadlinesTemplatedListingFetchesTitles(t *testing.T) {
	f := newFakeFetcher()
	yesterday := "https://www.prothomalo.com/sitemap/sitemap-daily-2025-09-18.xml"
	f.add(yesterday, "application/xml", `<urlset>
<url><loc>https://www.prothomalo.com/bangladesh/abc</loc></url>
<url><loc>https://www.prothomalo.com/sports/def</loc></url>
<url><loc>https://www.prothomalo.com/world/broken</loc></url>
<url><loc>https://www.prothomalo.com/world/ghi</loc></url>
</urlset>`)
	f.add("https://www.prothomalo.com/bangladesh/abc", "text/html", titlePage("বাজেট পাস হলো জাতীয় সংসদে আজ"))
	f.add("https://www.prothomalo.com/sports/def", "text/html", titlePage("টাইগারদের দারুণ জয় সিরিজে সমতা ফেরাল"))
	f.add("https://www.prothomalo.com/world/ghi", "text/html", titlePage("Never fetched because count is reached"))
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{}, prothomAlo)

	got, err := c.FetchHeadlines(context.Background(), models.SourceProthomAlo, 2)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 headlines, got %+v", got)
	}
	if got[0].Title != "বাজেট পাস হলো জাতীয় সংসদে আজ" || got[0].Category != "bangladesh" {
		t.Fatalf("unexpected first headline: %+v", got[0])
	}
	if got[1].Position != 2 || got[1].URL != "https://www.prothomalo.com/sports/def" {
		t.Fatalf("unexpected second headline: %+v", got[1])
	}
	if f.count("https://www.prothomalo.com/sitemap/sitemap-daily-2025-09-19.xml") != 1 {
		t.Fatal("today's listing should be tried first")
	}
	if f.count("https://www.prothomalo.com/world/ghi") != 0 {
		t.Fatal("titles beyond count must not be fetched")
	}
}

func TestFetchHeadlinesSourceUnavailable(t *testing.T) {
	f := newFakeFetcher()
	f.errFor[jugantor.ListingURL] = &web_fetch.Error{URL: jugantor.ListingURL, Err: errors.New("connection refused")}
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{}, jugantor, prothomAlo)

	if _, err := c.FetchHeadlines(context.Background(), models.SourceJugantor, 5); !errors.Is(err, models.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	// Every dated attempt 404s.
	_, err := c.FetchHeadlines(context.Background(), models.SourceProthomAlo, 5)
	if !errors.Is(err, models.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	var fe *web_fetch.Error
	if !errors.As(err, &fe) || fe.Status != http.StatusNotFound {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
	if n := len(f.calls); n != 1+4 {
		t.Fatalf("expected 1 jugantor and 4 dated attempts, got %d calls", n)
	}
}

func TestFetchHeadlinesRejectsBadInput(t *testing.T) {
	c := newTestCrawler(t, newFakeFetcher(), config.CrawlPolicyConfig{}, jugantor)
	if _, err := c.FetchHeadlines(context.Background(), models.SourceJugantor, 0); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := c.FetchHeadlines(context.Background(), "nytimes", 3); !errors.Is(err, models.ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}

const paragraph = "The finance minister placed the proposed budget before parliament on Thursday, outlining spending priorities for the coming fiscal year."

func articlePage(extra string) string {
	return `<html><head><title>Budget placed in parliament</title></head><body>
<nav><p>Home</p><p>Politics</p></nav>
<div class="article-body">
<p>` + paragraph + `</p>
<p>` + paragraph + `</p>
<p>` + paragraph + `</p>
` + extra + `
</div>
<div class="sidebar"><p><a href="/x">Most read story one</a></p></div>
</body></html>`
}

func TestFetchArticleAppliesSiteRule(t *testing.T) {
	url := "https://www.thedailystar.net/news/bangladesh/politics/news/budget-placed-3700001"
	f := newFakeFetcher()
	f.add(url, "text/html; charset=utf-8", articlePage(`<p>Related topic</p><p>Budget FY25</p><p>Economy</p>`))
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{}, dailyStar)

	got, err := c.FetchArticle(context.Background(), url)
	if err != nil {
		t.Fatalf("FetchArticle: %v", err)
	}
	paras := got.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs after cleanup, got %d: %q", len(paras), got.Body)
	}
	if strings.Contains(got.Body, "Related") || strings.Contains(got.Body, "Most read") {
		t.Fatalf("boilerplate leaked into body: %q", got.Body)
	}
	if got.Source != models.SourceDailyStar || got.URL != url {
		t.Fatalf("unexpected article: %+v", got)
	}
	if got.Title == "" {
		t.Fatal("expected a title")
	}
}

func TestFetchArticleUnescapesEscapedMarkup(t *testing.T) {
	url := "https://www.jugantor.com/national/777"
	f := newFakeFetcher()
	escaped := html.EscapeString(`<div class="article-body"><p>` + paragraph + `</p><p>` + paragraph + `</p></div>`)
	f.add(url, "text/html", escaped)
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{}, jugantor)

	got, err := c.FetchArticle(context.Background(), url)
	if err != nil {
		t.Fatalf("FetchArticle: %v", err)
	}
	if len(got.Paragraphs()) != 2 || got.Source != models.SourceJugantor {
		t.Fatalf("unexpected article: %+v", got)
	}
}

func TestFetchArticleFailures(t *testing.T) {
	f := newFakeFetcher()
	f.add("https://www.jugantor.com/feed.json", "application/json", `{"a":1}`)
	f.add("https://www.jugantor.com/empty", "text/html", `<html><body><div><span>nothing</span></div></body></html>`)
	c := newTestCrawler(t, f, config.CrawlPolicyConfig{DisallowPaths: []string{"/login"}}, jugantor)

	cases := []struct {
		url  string
		want error
	}{
		{"https://www.jugantor.com/missing", models.ErrFetchFailed},
		{"https://www.jugantor.com/feed.json", models.ErrFetchFailed},
		{"https://www.jugantor.com/login", models.ErrFetchFailed},
		{"not a url", models.ErrFetchFailed},
		{"https://www.jugantor.com/empty", models.ErrExtractionFailed},
	}
	for _, tc := range cases {
		if _, err := c.FetchArticle(context.Background(), tc.url); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.url, tc.want, err)
		}
	}

	_, err := c.FetchArticle(context.Background(), "https://www.jugantor.com/missing")
	var fe *web_fetch.Error
	if !errors.As(err, &fe) || fe.Status != http.StatusNotFound {
		t.Fatalf("expected the fetch error to stay inspectable, got %v", err)
	}
}

func TestCrawlerOverHTTP(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/news_sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, sitemapDoc(
				sitemapURL(srv.URL+"/national/1", "First story", ""),
				sitemapURL(srv.URL+"/sports/2", "Second story", ""),
			))
		case "/national/1":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, articlePage(""))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	info := news.SourceInfo{ID: "local", Name: "Local", Domain: "127.0.0.1", Kind: news.KindSitemap, ListingURL: srv.URL + "/news_sitemap.xml"}
	c := newTestCrawler(t, http_fetch.New(2*time.Second, config.DefaultUserAgent, 1<<20), config.CrawlPolicyConfig{}, info)

	headlines, err := c.FetchHeadlines(context.Background(), "local", 5)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	if len(headlines) != 2 || headlines[1].Category != "sports" {
		t.Fatalf("unexpected headlines: %+v", headlines)
	}
	article, err := c.FetchArticle(context.Background(), headlines[0].URL)
	if err != nil {
		t.Fatalf("FetchArticle: %v", err)
	}
	if len(article.Paragraphs()) != 3 || article.Source != "local" {
		t.Fatalf("unexpected article: %+v", article)
	}
	if _, err := c.FetchArticle(context.Background(), srv.URL+"/gone"); !errors.Is(err, models.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}
