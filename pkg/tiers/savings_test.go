package tiers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSavings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		ref     string
		tier    PriceTier
		amount  string
		percent string
	}{
		{name: "three for 25", ref: "10", tier: tier(3, "25", true), amount: "5.00", percent: "16.7"},
		{name: "five for 40", ref: "10", tier: tier(5, "40", true), amount: "10.00", percent: "20.0"},
		{name: "no saving", ref: "8", tier: tier(5, "40", true), amount: "0.00", percent: "0.0"},
		{name: "tier costs more", ref: "7", tier: tier(5, "40", true), amount: "-5.00", percent: "-14.3"},
		{name: "zero reference", ref: "0", tier: tier(3, "25", true), amount: "-25.00", percent: "0.0"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Savings(decimal.RequireFromString(tc.ref), tc.tier)
			assert.Equal(t, tc.amount, got.Amount.StringFixed(2))
			assert.Equal(t, tc.percent, got.Percent.StringFixed(1))
		})
	}
}

func TestSavingsAgreesWithResolvedTotal(t *testing.T) {
	t.Parallel()

	ref := decimal.RequireFromString("10")
	for _, tr := range []PriceTier{tier(3, "25", true), tier(7, "50", true), tier(6, "19.99", true)} {
		decision := Resolve(enabledSet(tr), tr.Quantity)
		regular := ref.Mul(decimal.NewFromInt(int64(tr.Quantity)))
		charged := decision.Total(tr.Quantity)

		got := Savings(ref, tr)
		assert.True(t, got.Amount.Equal(regular.Sub(charged)), "%d for %s: saving %s, charged %s",
			tr.Quantity, tr.TotalPrice, got.Amount, charged)
	}
}
