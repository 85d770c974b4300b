package productorders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/internal/memberships"
	dbpkg "github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
)

// AddRequest is the payload for adding a product line to a group.
type AddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Note      *string   `json:"note,omitempty"`
}

// UpdateRequest changes the quantity (and note) of an existing line.
type UpdateRequest struct {
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Note     *string `json:"note,omitempty"`
}

// Service implements a vendor's product order mutations within a group.
type Service struct {
	db *dbpkg.Client
}

// NewService builds a product order service over the database client.
func NewService(db *dbpkg.Client) *Service {
	return &Service{db: db}
}

// Add appends a vendor's line item to an ACTIVE group. Unit price is
// captured from the product catalog at add time; total is derived.
func (s *Service) Add(ctx context.Context, groupID, vendorID uuid.UUID, req AddRequest) (*models.ProductOrder, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var created *models.ProductOrder
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.guardActiveGroup(ctx, tx, groupID, vendorID); err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, "id = ? AND is_active = ?", req.ProductID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		quantity := decimal.NewFromInt(int64(req.Quantity))
		po := &models.ProductOrder{
			GroupID:    groupID,
			ProductID:  req.ProductID,
			VendorID:   vendorID,
			Quantity:   req.Quantity,
			UnitPrice:  product.BasePrice,
			TotalPrice: product.BasePrice.Mul(quantity).Round(2),
			Note:       req.Note,
		}
		if err := tx.Create(po).Error; err != nil {
			if dbpkg.IsUniqueViolation(err, "idx_product_orders_group_product_vendor") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product already in your group order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product order")
		}
		created = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateQuantity changes a line's quantity; the total is always recomputed
// from the stored unit price.
func (s *Service) UpdateQuantity(ctx context.Context, groupID, productOrderID, vendorID uuid.UUID, req UpdateRequest) (*models.ProductOrder, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var updated *models.ProductOrder
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.guardActiveGroup(ctx, tx, groupID, vendorID); err != nil {
			return err
		}

		var po models.ProductOrder
		if err := tx.First(&po, "id = ? AND group_id = ?", productOrderID, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product order")
		}
		if po.VendorID != vendorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "product order belongs to another vendor")
		}

		po.Quantity = req.Quantity
		po.TotalPrice = po.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)
		if req.Note != nil {
			po.Note = req.Note
		}
		if err := tx.Model(&po).
			Select("quantity", "total_price", "note", "updated_at").
			Updates(&po).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product order")
		}
		updated = &po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes a vendor's line from an ACTIVE group.
func (s *Service) Remove(ctx context.Context, groupID, productOrderID, vendorID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.guardActiveGroup(ctx, tx, groupID, vendorID); err != nil {
			return err
		}

		res := tx.Where("id = ? AND group_id = ? AND vendor_id = ?", productOrderID, groupID, vendorID).
			Delete(&models.ProductOrder{})
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "delete product order")
		}
		if res.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product order not found")
		}
		return nil
	})
}

// ListForGroup returns the group's product orders to any member.
func (s *Service) ListForGroup(ctx context.Context, groupID, userID uuid.UUID) ([]models.ProductOrder, error) {
	if _, err := memberships.NewRepository(s.db.DB()).GetMembership(ctx, userID, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this group")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check membership")
	}
	orders, err := NewRepository(s.db.DB()).ListByGroup(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product orders")
	}
	return orders, nil
}

// guardActiveGroup loads the group and enforces the ACTIVE-state and
// membership preconditions shared by every mutation.
func (s *Service) guardActiveGroup(ctx context.Context, tx *gorm.DB, groupID, vendorID uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
	}
	if group.Status != enums.GroupStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "group is not accepting product orders")
	}
	if _, err := memberships.NewRepository(tx).GetMembership(ctx, vendorID, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this group")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check membership")
	}
	return &group, nil
}
