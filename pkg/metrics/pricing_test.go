package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPricingMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPricingMetrics(reg)
	metrics.ObserveResolution(OutcomeExact)
	metrics.ObserveResolution(OutcomeExact)
	metrics.ObserveResolution("")
	metrics.ObserveCache(CacheMiss)
	metrics.IncSaved("replace")
	metrics.IncSkippedPass()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "quantity_offer_resolutions_total", "outcome", OutcomeExact); err != nil {
		t.Fatalf("fetch exact: %v", err)
	} else if got != 2 {
		t.Fatalf("expected exact=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "quantity_offer_resolutions_total", "outcome", "unknown"); err != nil {
		t.Fatalf("fetch unknown: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "quantity_offer_cache_lookups_total", "result", CacheMiss); err != nil {
		t.Fatalf("fetch cache miss: %v", err)
	} else if got != 1 {
		t.Fatalf("expected miss=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "quantity_offer_saves_total", "kind", "replace"); err != nil {
		t.Fatalf("fetch saves: %v", err)
	} else if got != 1 {
		t.Fatalf("expected replace=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "quantity_offer_passes_skipped_total")
	if mf == nil || len(mf.GetMetric()) != 1 || mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected one skipped pass")
	}
}

func TestNilPricingMetricsIsSafe(t *testing.T) {
	var metrics *PricingMetrics
	metrics.ObserveResolution(OutcomeNone)
	metrics.ObserveCache(CacheHit)
	metrics.IncSaved("clear")
	metrics.IncSkippedPass()

	unregistered := NewPricingMetrics(nil)
	unregistered.ObserveResolution(OutcomeLower)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
