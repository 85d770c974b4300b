package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductOrder is one vendor's requested quantity of one product within a
// group. TotalPrice always equals Quantity times UnitPrice after any write.
type ProductOrder struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID    uuid.UUID       `gorm:"column:group_id;type:uuid;not null;uniqueIndex:idx_product_orders_group_product_vendor"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_orders_group_product_vendor"`
	VendorID   uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:idx_product_orders_group_product_vendor"`
	Quantity   int             `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	Note       *string         `gorm:"column:note"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
