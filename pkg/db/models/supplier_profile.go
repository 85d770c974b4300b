package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierProfile carries the supplier-facing storefront data for a user
// with the supplier role.
type SupplierProfile struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	CompanyName string          `gorm:"column:company_name;not null"`
	Description *string         `gorm:"column:description"`
	Rating      decimal.Decimal `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	TotalOrders int             `gorm:"column:total_orders;not null;default:0"`
	IsVerified  bool            `gorm:"column:is_verified;not null;default:false"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
