package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductQuantityOffer is one stored price break. Position preserves the
// normalized order of the tier set.
type ProductQuantityOffer struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	Position   int             `gorm:"column:position;not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	Active     bool            `gorm:"column:active;not null"`
	Featured   bool            `gorm:"column:featured;not null;default:false"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (ProductQuantityOffer) TableName() string {
	return "product_quantity_offers"
}
