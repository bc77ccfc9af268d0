package cart

import (
	"context"
	"fmt"

	"github.com/angelmondragon/qtyoffers/internal/offers"
	pkgerrors "github.com/angelmondragon/qtyoffers/pkg/errors"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
	"github.com/angelmondragon/qtyoffers/pkg/metrics"
	"github.com/angelmondragon/qtyoffers/pkg/tiers"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Line warnings reported back to the cart.
const (
	WarningProductNotFound = "product_not_found"
	WarningInvalidQuantity = "invalid_quantity"
)

type offerReader interface {
	Get(ctx context.Context, productID uuid.UUID) (*offers.Snapshot, error)
}

// Line is one cart line as the cart knows it before recalculation.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	// UnitPrice is the price the cart currently charges. When absent the
	// product's current price is used for unmatched lines.
	UnitPrice decimal.NullDecimal
}

// LineResult is the recalculated line.
type LineResult struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.NullDecimal
	Subtotal  decimal.NullDecimal
	Applied   bool
	Tier      *tiers.PriceTier
	Warning   string
}

// Result is the outcome of one Recalculate call.
type Result struct {
	Lines []LineResult
	// AlreadyApplied is set when the pass refused to apply prices again.
	AlreadyApplied bool
}

// Service recalculates cart line prices from quantity offers.
type Service interface {
	Recalculate(ctx context.Context, pass *Pass, lines []Line) (*Result, error)
}

type service struct {
	offers  offerReader
	metrics *metrics.PricingMetrics
	logg    *logger.Logger
}

// NewService builds the cart recalculation service.
func NewService(reader offerReader, m *metrics.PricingMetrics, logg *logger.Logger) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("offer reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{offers: reader, metrics: m, logg: logg}, nil
}

// Recalculate overwrites each line's unit price with the matching tier's
// per-unit price and charges the tier's line total. Lines without a match keep
// their price. Each product is loaded once per call.
func (s *service) Recalculate(ctx context.Context, pass *Pass, lines []Line) (*Result, error) {
	if pass == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "recalculation pass required")
	}
	if !pass.tryBegin() {
		s.metrics.IncSkippedPass()
		s.logg.Debug(s.logg.WithField(ctx, "applied", pass.Applied()), "recalculation pass already applied")
		return &Result{Lines: untouched(lines), AlreadyApplied: true}, nil
	}

	snapshots := make(map[uuid.UUID]*offers.Snapshot, len(lines))
	missing := make(map[uuid.UUID]struct{})
	var loadErr error
	for _, line := range lines {
		if _, seen := snapshots[line.ProductID]; seen {
			continue
		}
		if _, gone := missing[line.ProductID]; gone {
			continue
		}
		snap, err := s.offers.Get(ctx, line.ProductID)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				missing[line.ProductID] = struct{}{}
				s.logg.Warn(s.logg.WithProductID(ctx, line.ProductID.String()), "cart line references unknown product")
				continue
			}
			loadErr = multierr.Append(loadErr, fmt.Errorf("product %s: %w", line.ProductID, err))
			continue
		}
		snapshots[line.ProductID] = snap
	}
	if loadErr != nil {
		pass.rollback()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, loadErr, "load quantity offers")
	}

	result := &Result{Lines: make([]LineResult, 0, len(lines))}
	for _, line := range lines {
		out := LineResult{ProductID: line.ProductID, Quantity: line.Quantity, UnitPrice: line.UnitPrice}
		snap, ok := snapshots[line.ProductID]
		switch {
		case !ok:
			out.Warning = WarningProductNotFound
		case line.Quantity <= 0:
			out.Warning = WarningInvalidQuantity
		default:
			s.apply(snap, line, &out)
		}
		if !out.Applied {
			out.Subtotal = subtotal(out.UnitPrice, line.Quantity)
		}
		result.Lines = append(result.Lines, out)
	}
	return result, nil
}

func (s *service) apply(snap *offers.Snapshot, line Line, out *LineResult) {
	if !out.UnitPrice.Valid {
		out.UnitPrice = decimal.NewNullDecimal(snap.CurrentPrice())
	}
	if !snap.Active() {
		s.metrics.ObserveResolution(metrics.OutcomeDisabled)
		return
	}
	decision := tiers.Resolve(snap.Set, line.Quantity)
	if !decision.Matched {
		s.metrics.ObserveResolution(metrics.OutcomeNone)
		return
	}
	if decision.ExactMatch(line.Quantity) {
		s.metrics.ObserveResolution(metrics.OutcomeExact)
	} else {
		s.metrics.ObserveResolution(metrics.OutcomeLower)
	}
	// The rounded unit price is for display. The subtotal comes from the tier
	// total so three for 25.00 charges 25.00, not 3 × 8.33.
	out.UnitPrice = decimal.NewNullDecimal(decision.UnitPrice)
	out.Subtotal = decimal.NewNullDecimal(decision.Total(line.Quantity))
	out.Applied = true
	out.Tier = decision.Tier
}

func untouched(lines []Line) []LineResult {
	out := make([]LineResult, 0, len(lines))
	for _, line := range lines {
		out = append(out, LineResult{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  subtotal(line.UnitPrice, line.Quantity),
		})
	}
	return out
}

func subtotal(unit decimal.NullDecimal, quantity int) decimal.NullDecimal {
	if !unit.Valid || quantity <= 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(tiers.RoundMoney(unit.Decimal.Mul(decimal.NewFromInt(int64(quantity)))))
}
