package tiers

import "github.com/shopspring/decimal"

// PercentPlaces is the precision of savings percentages shown to shoppers.
const PercentPlaces int32 = 1

var hundred = decimal.NewFromInt(100)

// SavingsResult is what a shopper saves by taking a tier instead of buying
// the same quantity at the reference unit price.
type SavingsResult struct {
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// Positive reports whether the tier is actually cheaper than the reference.
func (s SavingsResult) Positive() bool {
	return s.Amount.IsPositive()
}

// Savings compares a tier against referenceUnitPrice × tier quantity. The
// percentage is zero when the reference total is zero. The tier side is the
// same line total a cart charges for that quantity.
func Savings(referenceUnitPrice decimal.Decimal, tier PriceTier) SavingsResult {
	regular := RoundMoney(referenceUnitPrice.Mul(decimal.NewFromInt(int64(tier.Quantity))))
	amount := regular.Sub(tier.LineTotal(tier.Quantity))
	if regular.IsZero() {
		return SavingsResult{Amount: amount, Percent: decimal.Zero}
	}
	percent := amount.Div(regular).Mul(hundred).Round(PercentPlaces)
	return SavingsResult{Amount: amount, Percent: percent}
}
