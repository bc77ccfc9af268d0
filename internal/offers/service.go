package offers

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/qtyoffers/pkg/db"
	pkgerrors "github.com/angelmondragon/qtyoffers/pkg/errors"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
	"github.com/angelmondragon/qtyoffers/pkg/metrics"
	"github.com/angelmondragon/qtyoffers/pkg/tiers"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPlaceholderQuantity seeds the admin form when nothing is stored.
const DefaultPlaceholderQuantity = 3

// Service exposes quantity offer storage to the admin, cart and storefront.
type Service interface {
	Get(ctx context.Context, productID uuid.UUID) (*Snapshot, error)
	Save(ctx context.Context, productID uuid.UUID, input tiers.RawInput) (*Snapshot, error)
	SaveSet(ctx context.Context, productID uuid.UUID, set tiers.TierSet) (*Snapshot, error)
	Clear(ctx context.Context, productID uuid.UUID) error
	AdminForm(ctx context.Context, productID uuid.UUID) (*AdminForm, error)
}

// ServiceParams groups the service collaborators.
type ServiceParams struct {
	Repo    *Repository
	DB      *db.Client
	Cache   *Cache
	Metrics *metrics.PricingMetrics
	Logger  *logger.Logger
	// PlaceholderQuantity is the quantity shown in the admin form before any tier exists.
	PlaceholderQuantity int
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	cache       *Cache
	metrics     *metrics.PricingMetrics
	logg        *logger.Logger
	placeholder int
}

// NewService constructs the offers service. Cache and metrics are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	placeholder := params.PlaceholderQuantity
	if placeholder <= 0 {
		placeholder = DefaultPlaceholderQuantity
	}
	return &service{
		repo:        params.Repo,
		dbClient:    params.DB,
		cache:       params.Cache,
		metrics:     params.Metrics,
		logg:        params.Logger,
		placeholder: placeholder,
	}, nil
}

// Get returns the product's current snapshot, consulting the cache first.
// Cache failures are logged and fall through to the database.
func (s *service) Get(ctx context.Context, productID uuid.UUID) (*Snapshot, error) {
	ctx = s.logg.WithProductID(ctx, productID.String())
	if s.cache != nil {
		snap, ok, err := s.cache.Get(ctx, productID)
		switch {
		case err != nil:
			s.metrics.ObserveCache(metrics.CacheError)
			s.logg.WarnErr(ctx, "offers cache read failed", err)
		case ok:
			s.metrics.ObserveCache(metrics.CacheHit)
			return snap, nil
		default:
			s.metrics.ObserveCache(metrics.CacheMiss)
		}
	}

	snap, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Fill(ctx, snap); err != nil {
			s.logg.WarnErr(ctx, "offers cache write failed", err)
		}
	}
	return snap, nil
}

// Save normalizes a raw admin submission and replaces the stored set.
// A submission without rows clears the tiers but still records the flag.
func (s *service) Save(ctx context.Context, productID uuid.UUID, input tiers.RawInput) (*Snapshot, error) {
	if !input.HasRows() {
		s.logg.Debug(s.logg.WithProductID(ctx, productID.String()), "quantity offers submitted without rows")
	}
	return s.persist(ctx, productID, tiers.Normalize(input))
}

// SaveSet re-applies the normalization rules to typed tiers and replaces the stored set.
func (s *service) SaveSet(ctx context.Context, productID uuid.UUID, set tiers.TierSet) (*Snapshot, error) {
	return s.persist(ctx, productID, tiers.New(set.Enabled, set.Tiers...))
}

// Clear removes every tier and disables quantity offers for the product.
func (s *service) Clear(ctx context.Context, productID uuid.UUID) error {
	ctx = s.logg.WithProductID(ctx, productID.String())
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.SetEnabled(ctx, productID, false); err != nil {
			return mapStoreError(err, "db: disable quantity offers")
		}
		if err := txRepo.DeleteOffers(ctx, productID); err != nil {
			return mapStoreError(err, "db: delete quantity offers")
		}
		return nil
	})
	if err != nil {
		return err
	}
	snap, err := s.load(ctx, productID)
	if err != nil {
		s.invalidate(ctx, productID)
		return err
	}
	s.refresh(ctx, snap)
	s.metrics.IncSaved("clear")
	s.logg.Info(ctx, "quantity offers cleared")
	return nil
}

func (s *service) persist(ctx context.Context, productID uuid.UUID, set tiers.TierSet) (*Snapshot, error) {
	ctx = s.logg.WithProductID(ctx, productID.String())
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.SetEnabled(ctx, productID, set.Enabled); err != nil {
			return mapStoreError(err, "db: update quantity offers flag")
		}
		if err := txRepo.ReplaceOffers(ctx, productID, set); err != nil {
			return mapStoreError(err, "db: replace quantity offers")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	snap, err := s.load(ctx, productID)
	if err != nil {
		s.invalidate(ctx, productID)
		return nil, err
	}
	s.refresh(ctx, snap)

	kind := "replace"
	if set.Empty() {
		kind = "clear"
	}
	s.metrics.IncSaved(kind)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"tiers":   len(set.Tiers),
		"enabled": set.Enabled,
	}), "quantity offers saved")

	return snap, nil
}

func (s *service) load(ctx context.Context, productID uuid.UUID) (*Snapshot, error) {
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		return nil, mapStoreError(err, "db: load quantity offers")
	}
	return snapshotFromProduct(product), nil
}

// refresh overwrites the cached snapshot with the committed one. When the
// write fails the key is dropped so the next read goes to the database.
func (s *service) refresh(ctx context.Context, snap *Snapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, snap); err != nil {
		s.logg.WarnErr(ctx, "offers cache refresh failed", err)
		s.invalidate(ctx, snap.ProductID)
	}
}

func (s *service) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logg.WarnErr(ctx, "offers cache invalidation failed", err)
	}
}

func mapStoreError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.FromStore(err, message)
}
