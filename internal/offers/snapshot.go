package offers

import (
	"github.com/angelmondragon/qtyoffers/pkg/db/models"
	"github.com/angelmondragon/qtyoffers/pkg/tiers"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the per-request view of a product's quantity offers: the
// stored tier set plus the prices the collaborators compare against.
type Snapshot struct {
	ProductID    uuid.UUID           `json:"product_id"`
	RegularPrice decimal.Decimal     `json:"regular_price"`
	SalePrice    decimal.NullDecimal `json:"sale_price"`
	// Configured is false when no tier row was ever stored for the product.
	Configured bool          `json:"configured"`
	Set        tiers.TierSet `json:"set"`
}

// CurrentPrice is the sale price when one is set, else the regular price.
func (s Snapshot) CurrentPrice() decimal.Decimal {
	if s.SalePrice.Valid {
		return s.SalePrice.Decimal
	}
	return s.RegularPrice
}

// Active reports whether the engine should run for this product at all.
func (s Snapshot) Active() bool {
	return s.Configured && s.Set.Enabled
}

func snapshotFromProduct(product *models.Product) *Snapshot {
	set := tiers.TierSet{
		Enabled: product.QuantityOffersEnabled,
		Tiers:   make([]tiers.PriceTier, 0, len(product.QuantityOffers)),
	}
	for _, row := range product.QuantityOffers {
		set.Tiers = append(set.Tiers, tiers.PriceTier{
			Quantity:   row.Quantity,
			TotalPrice: row.TotalPrice,
			Active:     row.Active,
			Featured:   row.Featured,
		})
	}
	return &Snapshot{
		ProductID:    product.ID,
		RegularPrice: product.RegularPrice,
		SalePrice:    product.SalePrice,
		Configured:   len(set.Tiers) > 0,
		Set:          set,
	}
}

func rowsFromSet(productID uuid.UUID, set tiers.TierSet) []models.ProductQuantityOffer {
	rows := make([]models.ProductQuantityOffer, 0, len(set.Tiers))
	for i, tier := range set.Tiers {
		rows = append(rows, models.ProductQuantityOffer{
			ID:         uuid.New(),
			ProductID:  productID,
			Position:   i,
			Quantity:   tier.Quantity,
			TotalPrice: tiers.RoundMoney(tier.TotalPrice),
			Active:     tier.Active,
			Featured:   tier.Featured,
		})
	}
	return rows
}
