package productorders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
)

// Repository handles product order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to product order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new product order row.
func (r *Repository) Create(ctx context.Context, po *models.ProductOrder) error {
	if po == nil {
		return fmt.Errorf("product order is required")
	}
	return r.db.WithContext(ctx).Create(po).Error
}

// FindByID loads one product order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductOrder, error) {
	var po models.ProductOrder
	if err := r.db.WithContext(ctx).First(&po, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

// ListByGroup returns every product order in the group.
func (r *Repository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]models.ProductOrder, error) {
	var orders []models.ProductOrder
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByGroupTx is ListByGroup inside the caller's transaction.
func (r *Repository) ListByGroupTx(tx *gorm.DB, groupID uuid.UUID) ([]models.ProductOrder, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var orders []models.ProductOrder
	if err := tx.Where("group_id = ?", groupID).Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Update saves the mutable columns of a product order.
func (r *Repository) Update(ctx context.Context, po *models.ProductOrder) error {
	if po == nil {
		return fmt.Errorf("product order is required")
	}
	return r.db.WithContext(ctx).
		Model(po).
		Select("quantity", "unit_price", "total_price", "note", "updated_at").
		Updates(po).Error
}

// Delete removes the vendor's product order row.
func (r *Repository) Delete(ctx context.Context, id, vendorID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Delete(&models.ProductOrder{})
	return res.RowsAffected, res.Error
}
