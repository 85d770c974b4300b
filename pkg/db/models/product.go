package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// Product is a catalog entry suppliers can list against.
type Product struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	Description *string           `gorm:"column:description"`
	Category    string            `gorm:"column:category;not null"`
	Unit        enums.ProductUnit `gorm:"column:unit;type:product_unit;not null"`
	BasePrice   decimal.Decimal   `gorm:"column:base_price;type:numeric(12,2);not null"`
	ImageURL    *string           `gorm:"column:image_url"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
