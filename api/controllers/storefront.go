package controllers

import (
	"net/http"

	"github.com/angelmondragon/qtyoffers/api/responses"
	"github.com/angelmondragon/qtyoffers/api/validators"
	"github.com/angelmondragon/qtyoffers/internal/storefront"
	pkgerrors "github.com/angelmondragon/qtyoffers/pkg/errors"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
)

// StorefrontOffers lists the offers shown on a product page.
func StorefrontOffers(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}
		productID, err := validators.ParseUUIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		display, err := svc.Offers(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, display)
	}
}
