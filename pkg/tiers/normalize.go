package tiers

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ActiveSentinel is the form value that marks a row active.
const ActiveSentinel = "yes"

// NoFeatured is the featured index used when no row is selected.
const NoFeatured = -1

// RawInput mirrors the admin form submission: parallel per-row arrays plus a
// single featured selector shared by every row.
type RawInput struct {
	Enabled       bool
	Quantities    []string
	Prices        []string
	Actives       []string
	FeaturedIndex int
}

// HasRows reports whether the submission carried any quantity rows.
func (in RawInput) HasRows() bool {
	return len(in.Quantities) > 0
}

// ParseFeaturedIndex converts the radio-button value into an index, returning
// NoFeatured for empty or malformed input.
func ParseFeaturedIndex(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoFeatured
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return NoFeatured
	}
	return idx
}

// Normalize turns a raw admin submission into a TierSet. It never fails:
// unparseable numbers become zero, rows with zero quantity are dropped and
// the result is sorted ascending by quantity.
func Normalize(in RawInput) TierSet {
	out := make([]PriceTier, 0, len(in.Quantities))
	for i, rawQty := range in.Quantities {
		qty := parseQuantity(rawQty)
		if qty == 0 {
			continue
		}
		out = append(out, PriceTier{
			Quantity:   qty,
			TotalPrice: parsePrice(valueAt(in.Prices, i)),
			Active:     valueAt(in.Actives, i) == ActiveSentinel,
			Featured:   i == in.FeaturedIndex,
		})
	}
	sortTiers(out)
	return TierSet{Enabled: in.Enabled, Tiers: out}
}

// New builds a set from already typed tiers, applying the same rules as
// Normalize. When several tiers claim to be featured only the first one in
// sorted order keeps the flag.
func New(enabled bool, tiers ...PriceTier) TierSet {
	out := make([]PriceTier, 0, len(tiers))
	for _, tier := range tiers {
		if tier.Quantity <= 0 {
			continue
		}
		if tier.Quantity > MaxQuantity {
			tier.Quantity = MaxQuantity
		}
		tier.TotalPrice = clampPrice(tier.TotalPrice)
		out = append(out, tier)
	}
	sortTiers(out)
	seen := false
	for i := range out {
		if out[i].Featured {
			if seen {
				out[i].Featured = false
			}
			seen = true
		}
	}
	return TierSet{Enabled: enabled, Tiers: out}
}

func sortTiers(tiers []PriceTier) {
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].Quantity < tiers[j].Quantity
	})
}

func valueAt(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}

// parseQuantity saturates at MaxQuantity instead of wrapping.
func parseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	switch {
	case err == nil:
		return clampQuantity(n)
	case errors.Is(err, strconv.ErrRange):
		return MaxQuantity
	}
	// "3.0" and similar still count as 3.
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	d = d.Abs()
	if d.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return MaxQuantity
	}
	return int(d.IntPart())
}

func parsePrice(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return clampPrice(d)
}

func clampQuantity(n int64) int {
	if n < 0 {
		if n == math.MinInt64 {
			return MaxQuantity
		}
		n = -n
	}
	if n > MaxQuantity {
		return MaxQuantity
	}
	return int(n)
}

// clampPrice zeroes negative prices and caps the rest at maxTotalPrice.
func clampPrice(d decimal.Decimal) decimal.Decimal {
	switch {
	case d.IsNegative():
		return decimal.Zero
	case d.GreaterThan(maxTotalPrice):
		return maxTotalPrice
	}
	return d
}
