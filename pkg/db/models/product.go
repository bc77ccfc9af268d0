package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the slice of the product catalog the offers service reads
// and writes: base prices plus the quantity offer toggle.
type Product struct {
	ID                    uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	SKU                   string                 `gorm:"column:sku;not null"`
	Title                 string                 `gorm:"column:title;not null"`
	RegularPrice          decimal.Decimal        `gorm:"column:regular_price;type:numeric(12,2);not null"`
	SalePrice             decimal.NullDecimal    `gorm:"column:sale_price;type:numeric(12,2)"`
	QuantityOffersEnabled bool                   `gorm:"column:quantity_offers_enabled;not null;default:false"`
	QuantityOffers        []ProductQuantityOffer `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
