package storefront

import (
	"context"
	"fmt"

	"github.com/angelmondragon/qtyoffers/internal/offers"
	"github.com/angelmondragon/qtyoffers/pkg/tiers"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type offerReader interface {
	Get(ctx context.Context, productID uuid.UUID) (*offers.Snapshot, error)
}

// Offer is one eligible tier as shown on the product page.
type Offer struct {
	Quantity   int                 `json:"quantity"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	UnitPrice  decimal.Decimal     `json:"unit_price"`
	Savings    tiers.SavingsResult `json:"savings"`
	// ShowSavings is false when the tier is not cheaper than the current price.
	ShowSavings bool `json:"show_savings"`
	Featured    bool `json:"featured"`
}

// Display is the storefront payload for a product.
type Display struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Enabled      bool            `json:"enabled"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	// SelectQuantity is the quantity preselected in the add-to-cart input.
	SelectQuantity int     `json:"select_quantity,omitempty"`
	AutoSubmit     bool    `json:"auto_submit"`
	Offers         []Offer `json:"offers"`
}

// Service renders quantity offers for shoppers.
type Service interface {
	Offers(ctx context.Context, productID uuid.UUID) (*Display, error)
}

type service struct {
	offers     offerReader
	autoSubmit bool
}

// NewService builds the storefront service.
func NewService(reader offerReader, autoSubmit bool) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("offer reader required")
	}
	return &service{offers: reader, autoSubmit: autoSubmit}, nil
}

// Offers lists the eligible tiers with savings against the current price.
// Disabled or unconfigured products render an empty list.
func (s *service) Offers(ctx context.Context, productID uuid.UUID) (*Display, error) {
	snap, err := s.offers.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return buildDisplay(snap, s.autoSubmit), nil
}

func buildDisplay(snap *offers.Snapshot, autoSubmit bool) *Display {
	current := snap.CurrentPrice()
	display := &Display{
		ProductID:    snap.ProductID,
		CurrentPrice: current,
		Offers:       []Offer{},
	}
	if !snap.Active() {
		return display
	}

	for _, tier := range snap.Set.Eligible() {
		savings := tiers.Savings(current, tier)
		display.Offers = append(display.Offers, Offer{
			Quantity:    tier.Quantity,
			TotalPrice:  tiers.RoundMoney(tier.TotalPrice),
			UnitPrice:   tier.UnitPrice(),
			Savings:     savings,
			ShowSavings: savings.Positive(),
			Featured:    tier.Featured,
		})
	}
	if len(display.Offers) == 0 {
		return display
	}

	display.Enabled = true
	display.AutoSubmit = autoSubmit
	display.SelectQuantity = display.Offers[0].Quantity
	if featured, ok := snap.Set.Featured(); ok && featured.Eligible() {
		display.SelectQuantity = featured.Quantity
	}
	return display
}
