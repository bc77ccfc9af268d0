package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/qtyoffers/api/responses"
	"github.com/angelmondragon/qtyoffers/api/validators"
	"github.com/angelmondragon/qtyoffers/internal/cart"
	pkgerrors "github.com/angelmondragon/qtyoffers/pkg/errors"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
	"github.com/angelmondragon/qtyoffers/pkg/tiers"
)

// CartRecalculate reprices the submitted cart lines. Each request is one
// calculation pass.
func CartRecalculate(svc cart.Service, maxApplications int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload recalculateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]cart.Line, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			in := cart.Line{ProductID: line.ProductID, Quantity: line.Quantity}
			if line.UnitPrice != nil {
				in.UnitPrice = decimal.NewNullDecimal(*line.UnitPrice)
			}
			lines = append(lines, in)
		}

		result, err := svc.Recalculate(r.Context(), cart.NewPass(maxApplications), lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRecalculateResponse(result))
	}
}

type recalculateRequest struct {
	Lines []recalculateLine `json:"lines" validate:"required,min=1,max=200,dive"`
}

type recalculateLine struct {
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

type recalculateResponse struct {
	AlreadyApplied bool               `json:"already_applied"`
	Lines          []recalculatedLine `json:"lines"`
	Total          decimal.Decimal    `json:"total"`
}

type recalculatedLine struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Subtotal  *decimal.Decimal `json:"subtotal"`
	Applied   bool             `json:"applied"`
	Tier      *tiers.PriceTier `json:"tier,omitempty"`
	Warning   string           `json:"warning,omitempty"`
}

func newRecalculateResponse(result *cart.Result) recalculateResponse {
	resp := recalculateResponse{
		AlreadyApplied: result.AlreadyApplied,
		Lines:          make([]recalculatedLine, 0, len(result.Lines)),
		Total:          decimal.Zero,
	}
	for _, line := range result.Lines {
		out := recalculatedLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Applied:   line.Applied,
			Tier:      line.Tier,
			Warning:   line.Warning,
		}
		if line.UnitPrice.Valid {
			unit := line.UnitPrice.Decimal
			out.UnitPrice = &unit
		}
		if line.Subtotal.Valid {
			sub := line.Subtotal.Decimal
			out.Subtotal = &sub
			resp.Total = resp.Total.Add(sub)
		}
		resp.Lines = append(resp.Lines, out)
	}
	resp.Total = tiers.RoundMoney(resp.Total)
	return resp
}
