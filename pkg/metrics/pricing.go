package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes recorded for every cart line the engine evaluates.
const (
	OutcomeExact    = "exact"
	OutcomeLower    = "lower"
	OutcomeNone     = "none"
	OutcomeDisabled = "disabled"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// PricingMetrics records quantity offer activity.
type PricingMetrics struct {
	resolutions *prometheus.CounterVec
	cache       *prometheus.CounterVec
	saves       *prometheus.CounterVec
	skipped     prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quantity_offer_resolutions_total",
		Help: "Cart line price resolutions by outcome.",
	}, []string{"outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quantity_offer_cache_lookups_total",
		Help: "Offer snapshot cache lookups by result.",
	}, []string{"result"})
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quantity_offer_saves_total",
		Help: "Admin tier set writes by kind.",
	}, []string{"kind"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quantity_offer_passes_skipped_total",
		Help: "Recalculation passes refused because the pass already applied prices.",
	})
	reg.MustRegister(resolutions, cache, saves, skipped)
	return &PricingMetrics{
		resolutions: resolutions,
		cache:       cache,
		saves:       saves,
		skipped:     skipped,
	}
}

// ObserveResolution increments the counter for a resolution outcome.
func (m *PricingMetrics) ObserveResolution(outcome string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveCache increments the counter for a cache lookup result.
func (m *PricingMetrics) ObserveCache(result string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncSaved counts a tier set write ("replace" or "clear").
func (m *PricingMetrics) IncSaved(kind string) {
	if m == nil || m.saves == nil {
		return
	}
	m.saves.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncSkippedPass counts a refused recalculation pass.
func (m *PricingMetrics) IncSkippedPass() {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
