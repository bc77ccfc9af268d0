package controllers

import (
	"net/http"

	"github.com/angelmondragon/qtyoffers/api/responses"
	"github.com/angelmondragon/qtyoffers/api/validators"
	"github.com/angelmondragon/qtyoffers/internal/offers"
	pkgerrors "github.com/angelmondragon/qtyoffers/pkg/errors"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
	"github.com/angelmondragon/qtyoffers/pkg/tiers"
	"github.com/shopspring/decimal"
)

const productIDParam = "productId"

// AdminGetOffers renders the admin form rows for a product.
func AdminGetOffers(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}
		productID, err := validators.ParseUUIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form, err := svc.AdminForm(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, form)
	}
}

// AdminSaveOffers replaces a product's tier set from either the url-encoded
// admin form or a JSON body.
func AdminSaveOffers(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}
		productID, err := validators.ParseUUIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var snap *offers.Snapshot
		if validators.IsFormRequest(r) {
			input, err := validators.ParseOfferForm(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			snap, err = svc.Save(r.Context(), productID, input)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			var payload saveOffersRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if payload.Tiers != nil {
				snap, err = svc.SaveSet(r.Context(), productID, payload.toSet())
			} else {
				snap, err = svc.Save(r.Context(), productID, payload.toRawInput())
			}
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, snap)
	}
}

// AdminClearOffers deletes every tier and disables offers for the product.
func AdminClearOffers(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}
		productID, err := validators.ParseUUIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Clear(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// saveOffersRequest accepts either typed tiers or the form's parallel arrays.
type saveOffersRequest struct {
	Enabled       bool          `json:"enabled"`
	Tiers         []tierRequest `json:"tiers,omitempty" validate:"omitempty,max=50,dive"`
	Quantities    []string      `json:"quantities,omitempty" validate:"max=50"`
	Prices        []string      `json:"prices,omitempty" validate:"max=50"`
	Actives       []string      `json:"actives,omitempty" validate:"max=50"`
	FeaturedIndex *int          `json:"featured_index,omitempty"`
}

type tierRequest struct {
	Quantity   int             `json:"quantity" validate:"min=1"`
	TotalPrice decimal.Decimal `json:"total_price" validate:"gte=0"`
	Active     bool            `json:"active"`
	Featured   bool            `json:"featured"`
}

func (p saveOffersRequest) toSet() tiers.TierSet {
	set := tiers.TierSet{Enabled: p.Enabled, Tiers: make([]tiers.PriceTier, 0, len(p.Tiers))}
	for _, tier := range p.Tiers {
		set.Tiers = append(set.Tiers, tiers.PriceTier{
			Quantity:   tier.Quantity,
			TotalPrice: tier.TotalPrice,
			Active:     tier.Active,
			Featured:   tier.Featured,
		})
	}
	return set
}

func (p saveOffersRequest) toRawInput() tiers.RawInput {
	featured := tiers.NoFeatured
	if p.FeaturedIndex != nil {
		featured = *p.FeaturedIndex
	}
	return tiers.RawInput{
		Enabled:       p.Enabled,
		Quantities:    p.Quantities,
		Prices:        p.Prices,
		Actives:       p.Actives,
		FeaturedIndex: featured,
	}
}
