package offers

import (
	"context"

	"github.com/angelmondragon/qtyoffers/pkg/db/models"
	"github.com/angelmondragon/qtyoffers/pkg/tiers"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists the per-product enable flag and tier rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProduct loads the product with its tier rows in stored order.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("QuantityOffers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a catalog row. Used by seeding and tests.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SetEnabled toggles the product level quantity offers flag.
func (r *Repository) SetEnabled(ctx context.Context, productID uuid.UUID, enabled bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("quantity_offers_enabled", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceOffers swaps every stored tier row for the given set. An empty set
// leaves the product unconfigured.
func (r *Repository) ReplaceOffers(ctx context.Context, productID uuid.UUID, set tiers.TierSet) error {
	if err := r.DeleteOffers(ctx, productID); err != nil {
		return err
	}
	rows := rowsFromSet(productID, set)
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// DeleteOffers removes all tier rows for the product.
func (r *Repository) DeleteOffers(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductQuantityOffer{}).Error
}
