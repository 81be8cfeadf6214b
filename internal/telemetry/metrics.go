// Package telemetry holds the Prometheus collectors shared by the crawler,
// the session desk and the HTTP server.
package telemetry

import (
	"github.com/mohammad-safakhou/khobor/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups every collector khobor exports.
type Metrics struct {
	FetchTotal      *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	HeadlinesListed *prometheus.CounterVec
	Resolutions     *prometheus.CounterVec
	ArticleRequests *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which tests rely on.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "khobor",
			Name:      "fetch_total",
			Help:      "Page fetches by kind (listing, article, title) and outcome.",
		}, []string{"kind", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "khobor",
			Name:      "fetch_duration_seconds",
			Help:      "Page fetch latency by kind.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"kind"}),
		HeadlinesListed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "khobor",
			Name:      "headlines_listed_total",
			Help:      "Headlines returned by listing fetches per source.",
		}, []string{"source"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "khobor",
			Name:      "reference_resolutions_total",
			Help:      "Headline reference resolutions by outcome kind.",
		}, []string{"outcome"}),
		ArticleRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "khobor",
			Name:      "article_requests_total",
			Help:      "Article requests by outcome kind.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "khobor",
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route and status code.",
		}, []string{"route", "code"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.FetchTotal,
			m.FetchDuration,
			m.HeadlinesListed,
			m.Resolutions,
			m.ArticleRequests,
			m.HTTPRequests,
		)
	}
	return m
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Outcome maps an error to a metric label: "ok" or its failure kind.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(models.KindOf(err))
}
