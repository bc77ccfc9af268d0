package tiers

import (
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnits is the number of decimal places money values are rounded to.
const MinorUnits int32 = 2

// MaxQuantity is the largest tier quantity the store column can hold.
// Larger inputs saturate to it.
const MaxQuantity = math.MaxInt32

// maxTotalPrice is the largest value a numeric(12,2) price column can hold.
var maxTotalPrice = decimal.New(999999999999, -MinorUnits)

// PriceTier is a single price break: pay TotalPrice for exactly Quantity units.
type PriceTier struct {
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Active     bool            `json:"active"`
	Featured   bool            `json:"featured"`
}

// Eligible reports whether the tier can take part in resolution and display.
func (t PriceTier) Eligible() bool {
	return t.Active && t.Quantity > 0 && t.TotalPrice.IsPositive()
}

// UnitPrice derives the per-unit price from the stored total and quantity.
func (t PriceTier) UnitPrice() decimal.Decimal {
	if t.Quantity <= 0 {
		return decimal.Zero
	}
	return RoundMoney(t.TotalPrice.Div(decimal.NewFromInt(int64(t.Quantity))))
}

// LineTotal prices quantity units at the tier's rate. The total is scaled
// before rounding, so an exact match costs TotalPrice to the cent.
func (t PriceTier) LineTotal(quantity int) decimal.Decimal {
	if t.Quantity <= 0 || quantity <= 0 {
		return decimal.Zero
	}
	scaled := t.TotalPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return RoundMoney(scaled.Div(decimal.NewFromInt(int64(t.Quantity))))
}

// TierSet is the ordered collection of price breaks owned by one product.
type TierSet struct {
	Enabled bool        `json:"enabled"`
	Tiers   []PriceTier `json:"tiers"`
}

// Eligible returns the active, positively priced tiers in set order.
func (s TierSet) Eligible() []PriceTier {
	out := make([]PriceTier, 0, len(s.Tiers))
	for _, tier := range s.Tiers {
		if tier.Eligible() {
			out = append(out, tier)
		}
	}
	return out
}

// Featured returns the featured tier, if any.
func (s TierSet) Featured() (PriceTier, bool) {
	for _, tier := range s.Tiers {
		if tier.Featured {
			return tier, true
		}
	}
	return PriceTier{}, false
}

// Empty reports whether the set holds no tiers at all.
func (s TierSet) Empty() bool {
	return len(s.Tiers) == 0
}

// RoundMoney rounds to the currency minor unit.
func RoundMoney(v decimal.Decimal) decimal.Decimal {
	return v.Round(MinorUnits)
}
