package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierListing is a supplier's priced offer to sell a product, with
// optional quantity-discount tiers.
type SupplierListing struct {
	ID                uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID        uuid.UUID             `gorm:"column:supplier_id;type:uuid;not null;uniqueIndex:idx_supplier_listings_supplier_product"`
	ProductID         uuid.UUID             `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_supplier_listings_supplier_product"`
	PricePerUnit      decimal.Decimal       `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	MinOrderQuantity  int                   `gorm:"column:min_order_quantity;not null;default:1"`
	MaxOrderQuantity  *int                  `gorm:"column:max_order_quantity"`
	IsAvailable       bool                  `gorm:"column:is_available;not null;default:true"`
	DeliveryTimeHours int                   `gorm:"column:delivery_time_hours;not null;default:24"`
	DiscountTiers     []ListingDiscountTier `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// ListingDiscountTier is one quantity-discount rung on a listing. Position
// preserves the order tiers were submitted in; tier resolution during price
// comparison walks tiers in this order.
type ListingDiscountTier struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ListingID    uuid.UUID       `gorm:"column:listing_id;type:uuid;not null;index"`
	Position     int             `gorm:"column:position;not null"`
	MinQuantity  int             `gorm:"column:min_quantity;not null"`
	PricePerUnit decimal.Decimal `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
