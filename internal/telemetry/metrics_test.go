package telemetry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mohammad-safakhou/khobor/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRegisterAndCount(t *testing.T) {
	reg := NewRegistry()
	m := NewMetrics(reg)
	m.FetchTotal.WithLabelValues("article", Outcome(nil)).Inc()
	m.FetchTotal.WithLabelValues("article", Outcome(fmt.Errorf("wrap: %w", models.ErrFetchFailed))).Inc()
	m.FetchTotal.WithLabelValues("article", "ok").Inc()

	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues("article", "ok")); got != 2 {
		t.Fatalf("expected 2 ok fetches, got %v", got)
	}
	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues("article", "FetchFailed")); got != 1 {
		t.Fatalf("expected 1 failed fetch, got %v", got)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "khobor_fetch_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("khobor_fetch_total not registered")
	}
}

func TestOutcomeUnknownErrorIsInternal(t *testing.T) {
	if got := Outcome(errors.New("boom")); got != "Internal" {
		t.Fatalf("expected Internal, got %q", got)
	}
}

func TestNewMetricsWithoutRegistry(t *testing.T) {
	m := NewMetrics(nil)
	m.Resolutions.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(m.Resolutions.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}
