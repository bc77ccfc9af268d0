package tiers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tier(qty int, total string, active bool) PriceTier {
	return PriceTier{Quantity: qty, TotalPrice: decimal.RequireFromString(total), Active: active}
}

func enabledSet(tiers ...PriceTier) TierSet {
	return TierSet{Enabled: true, Tiers: tiers}
}

func TestResolveExactMatchWins(t *testing.T) {
	t.Parallel()

	set := enabledSet(tier(3, "25", true), tier(5, "40", true))
	decision := Resolve(set, 5)

	require.True(t, decision.Matched)
	require.NotNil(t, decision.Tier)
	assert.Equal(t, 5, decision.Tier.Quantity)
	assert.Equal(t, "8.00", decision.UnitPrice.StringFixed(2))
	assert.True(t, decision.ExactMatch(5))
}

func TestResolveLowerOrEqualMatch(t *testing.T) {
	t.Parallel()

	set := enabledSet(tier(3, "25", true), tier(5, "40", true))
	decision := Resolve(set, 4)

	require.True(t, decision.Matched)
	assert.Equal(t, 3, decision.Tier.Quantity)
	assert.Equal(t, "8.33", decision.UnitPrice.StringFixed(2))
	assert.False(t, decision.ExactMatch(4))
}

func TestDecisionTotalChargesTierPrice(t *testing.T) {
	t.Parallel()

	set := enabledSet(tier(3, "25", true), tier(7, "50", true))

	exact := Resolve(set, 3)
	assert.Equal(t, "8.33", exact.UnitPrice.StringFixed(2))
	assert.Equal(t, "25.00", exact.Total(3).StringFixed(2))

	lower := Resolve(set, 4)
	assert.Equal(t, "33.33", lower.Total(4).StringFixed(2))

	seven := Resolve(set, 7)
	assert.Equal(t, "7.14", seven.UnitPrice.StringFixed(2))
	assert.Equal(t, "50.00", seven.Total(7).StringFixed(2))

	assert.True(t, Resolve(set, 2).Total(2).IsZero())
}

func TestResolveAboveHighestTierUsesHighest(t *testing.T) {
	t.Parallel()

	set := enabledSet(tier(3, "25", true), tier(5, "40", true))
	decision := Resolve(set, 12)

	require.True(t, decision.Matched)
	assert.Equal(t, 5, decision.Tier.Quantity)
}

func TestResolveBelowThreshold(t *testing.T) {
	t.Parallel()

	decision := Resolve(enabledSet(tier(3, "25", true)), 2)
	assert.False(t, decision.Matched)
	assert.Nil(t, decision.Tier)
	assert.True(t, decision.UnitPrice.IsZero())
}

func TestResolveExcludesInactiveAndZeroPrice(t *testing.T) {
	t.Parallel()

	set := enabledSet(tier(3, "0", true), tier(5, "40", false))
	assert.False(t, Resolve(set, 3).Matched)
	assert.False(t, Resolve(set, 5).Matched)
	assert.False(t, Resolve(set, 9).Matched)
}

func TestResolveSkipsIneligibleExactForLowerTier(t *testing.T) {
	t.Parallel()

	set := enabledSet(tier(3, "25", true), tier(5, "40", false))
	decision := Resolve(set, 5)

	require.True(t, decision.Matched)
	assert.Equal(t, 3, decision.Tier.Quantity)
}

func TestResolveDuplicateQuantitiesFirstWins(t *testing.T) {
	t.Parallel()

	set := enabledSet(
		tier(3, "27", true),
		tier(3, "24", true),
		tier(5, "45", true),
		tier(5, "35", true),
	)

	exact := Resolve(set, 3)
	require.True(t, exact.Matched)
	assert.Equal(t, "27", exact.Tier.TotalPrice.String())

	lower := Resolve(set, 7)
	require.True(t, lower.Matched)
	assert.Equal(t, "45", lower.Tier.TotalPrice.String())
}

func TestResolveDisabledSetNeverMatches(t *testing.T) {
	t.Parallel()

	set := TierSet{Enabled: false, Tiers: []PriceTier{tier(3, "25", true)}}
	assert.False(t, Resolve(set, 3).Matched)
}

func TestResolveNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	set := enabledSet(tier(2, "10", true))
	assert.False(t, Resolve(set, 0).Matched)
	assert.False(t, Resolve(set, -4).Matched)
}

func TestResolveEmptySet(t *testing.T) {
	t.Parallel()

	assert.False(t, Resolve(enabledSet(), 3).Matched)
	assert.False(t, Resolve(TierSet{}, 3).Matched)
}

func TestResolveIsDeterministic(t *testing.T) {
	t.Parallel()

	set := enabledSet(tier(2, "19.99", true), tier(3, "25", true), tier(3, "26", true), tier(10, "70", true))
	for q := 0; q <= 12; q++ {
		first := Resolve(set, q)
		for i := 0; i < 5; i++ {
			again := Resolve(set, q)
			require.Equal(t, first.Matched, again.Matched, "quantity %d", q)
			if first.Matched {
				require.Equal(t, *first.Tier, *again.Tier, "quantity %d", q)
				require.True(t, first.UnitPrice.Equal(again.UnitPrice), "quantity %d", q)
			}
		}
	}
}

func TestResolveReturnsCopyOfTier(t *testing.T) {
	t.Parallel()

	set := enabledSet(tier(3, "25", true))
	decision := Resolve(set, 3)
	require.True(t, decision.Matched)

	decision.Tier.Quantity = 99
	assert.Equal(t, 3, set.Tiers[0].Quantity)
}
