package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// Repository handles consolidated order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts the order inside the caller's transaction.
func (r *Repository) CreateTx(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return tx.Create(order).Error
}

// FindByID loads one order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByGroupID loads the order placed against a group, if any.
func (r *Repository) FindByGroupID(ctx context.Context, groupID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "group_id = ?", groupID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListBySupplier returns orders assigned to the supplier, newest first.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error) {
	qb := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID)
	if status != nil {
		qb = qb.Where("status = ?", *status)
	}
	var orders []models.Order
	if err := qb.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByGroupIDs returns orders for any of the given groups, newest first.
func (r *Repository) ListByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) ([]models.Order, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatusTx saves status and delivery fields inside the transaction.
func (r *Repository) UpdateStatusTx(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return tx.Model(order).
		Select("status", "estimated_delivery", "updated_at").
		Updates(order).Error
}
