package offers

import (
	"context"

	"github.com/angelmondragon/qtyoffers/pkg/tiers"
	"github.com/google/uuid"
)

// AdminForm is what the product edit screen renders: one row per stored tier
// plus the single featured selector.
type AdminForm struct {
	ProductID     uuid.UUID  `json:"product_id"`
	Enabled       bool       `json:"enabled"`
	Rows          []AdminRow `json:"rows"`
	FeaturedIndex int        `json:"featured_index"`
}

// AdminRow is one editable tier row. Price is empty for the placeholder row.
type AdminRow struct {
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Active   bool   `json:"active"`
}

// AdminForm returns the stored rows, or a single placeholder row when the
// product was never configured. It always reads through to the database.
func (s *service) AdminForm(ctx context.Context, productID uuid.UUID) (*AdminForm, error) {
	snap, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	return buildAdminForm(snap, s.placeholder), nil
}

func buildAdminForm(snap *Snapshot, placeholder int) *AdminForm {
	form := &AdminForm{
		ProductID:     snap.ProductID,
		Enabled:       snap.Set.Enabled,
		FeaturedIndex: tiers.NoFeatured,
	}
	if !snap.Configured {
		form.Rows = []AdminRow{{Quantity: placeholder, Active: true}}
		return form
	}
	form.Rows = make([]AdminRow, 0, len(snap.Set.Tiers))
	for i, tier := range snap.Set.Tiers {
		form.Rows = append(form.Rows, AdminRow{
			Quantity: tier.Quantity,
			Price:    tiers.RoundMoney(tier.TotalPrice).StringFixed(tiers.MinorUnits),
			Active:   tier.Active,
		})
		if tier.Featured {
			form.FeaturedIndex = i
		}
	}
	return form
}
