package tiers

import "github.com/shopspring/decimal"

// PricingDecision is the outcome of resolving a quantity against a TierSet.
type PricingDecision struct {
	Matched   bool            `json:"matched"`
	Tier      *PriceTier      `json:"tier,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ExactMatch reports whether the selected tier's quantity equals the requested one.
func (d PricingDecision) ExactMatch(quantity int) bool {
	return d.Matched && d.Tier != nil && d.Tier.Quantity == quantity
}

// Total prices quantity units at the matched tier's rate. It is zero when
// nothing matched.
func (d PricingDecision) Total(quantity int) decimal.Decimal {
	if !d.Matched || d.Tier == nil {
		return decimal.Zero
	}
	return d.Tier.LineTotal(quantity)
}

// Resolve selects the tier that prices the requested quantity.
//
// An eligible tier whose quantity equals the request wins outright. Otherwise
// the eligible tier with the largest quantity not above the request is used.
// Ties on quantity go to the first tier in set order. A disabled set, a
// non-positive quantity or a request below every threshold yields an
// unmatched decision and the caller keeps its base price.
func Resolve(set TierSet, quantity int) PricingDecision {
	if !set.Enabled || quantity <= 0 {
		return PricingDecision{}
	}

	var best *PriceTier
	for i := range set.Tiers {
		tier := set.Tiers[i]
		if !tier.Eligible() {
			continue
		}
		if tier.Quantity == quantity {
			best = &tier
			break
		}
		if tier.Quantity < quantity && (best == nil || tier.Quantity > best.Quantity) {
			best = &tier
		}
	}
	if best == nil {
		return PricingDecision{}
	}

	return PricingDecision{
		Matched:   true,
		Tier:      best,
		UnitPrice: best.UnitPrice(),
	}
}
