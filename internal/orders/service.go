package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/internal/memberships"
	dbpkg "github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox/payloads"
)

// OrderWithSplit pairs an order with its per-vendor cost breakdown.
type OrderWithSplit struct {
	Order *OrderDTO  `json:"order"`
	Split *CostSplit `json:"cost_split"`
}

// Service covers the order read side and supplier fulfillment updates.
type Service struct {
	db       *dbpkg.Client
	splitter *Splitter
	logg     *logger.Logger
}

// NewService builds an order service over the database client.
func NewService(db *dbpkg.Client, logg *logger.Logger) *Service {
	return &Service{db: db, splitter: NewSplitter(db), logg: logg}
}

// Get returns the order with its cost split. Visible to group members, the
// group's creator and the assigned supplier.
func (s *Service) Get(ctx context.Context, orderID, callerID uuid.UUID) (*OrderWithSplit, error) {
	order, err := NewRepository(s.db.DB()).FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if err := s.authorizeRead(ctx, order, callerID); err != nil {
		return nil, err
	}

	split, err := s.splitter.Split(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderWithSplit{Order: FromModel(order), Split: split}, nil
}

// ListForVendor returns orders placed by any group the vendor belongs to.
func (s *Service) ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]OrderDTO, error) {
	groupIDs, err := memberships.NewRepository(s.db.DB()).ListGroupIDsForUser(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendor groups")
	}
	orders, err := NewRepository(s.db.DB()).ListByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return toDTOs(orders), nil
}

// ListForSupplier returns orders assigned to the supplier.
func (s *Service) ListForSupplier(ctx context.Context, supplierID uuid.UUID, status *enums.OrderStatus) ([]OrderDTO, error) {
	orders, err := NewRepository(s.db.DB()).ListBySupplier(ctx, supplierID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supplier orders")
	}
	return toDTOs(orders), nil
}

// UpdateStatus lets the assigned supplier move the order through its
// lifecycle. Delivery also completes the owning group.
func (s *Service) UpdateStatus(ctx context.Context, orderID, supplierID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	if !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.SupplierID != supplierID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is assigned to another supplier")
		}
		if !order.Status.CanTransitionTo(req.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not permitted from current status")
		}

		fromStatus := order.Status
		order.Status = req.Status
		if req.EstimatedDelivery != nil {
			order.EstimatedDelivery = req.EstimatedDelivery
		}
		if err := NewRepository(tx).UpdateStatusTx(tx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}

		if req.Status == enums.OrderStatusDelivered {
			res := tx.Model(&models.Group{}).
				Where("id = ? AND status = ?", order.GroupID, enums.GroupStatusOrderPlaced).
				Update("status", enums.GroupStatusCompleted)
			if res.Error != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "complete group")
			}
		}

		memberIDs, err := memberships.NewRepository(tx).ListMemberIDs(ctx, order.GroupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list member ids")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: supplierID, Role: string(enums.UserRoleSupplier)},
			Data: payloads.OrderStatusChangedEvent{
				OrderID:     order.ID,
				GroupID:     order.GroupID,
				OrderNumber: order.OrderNumber,
				FromStatus:  fromStatus,
				ToStatus:    req.Status,
				MemberIDs:   memberIDs,
			},
			Version: 1,
		}
		if err := outbox.NewService(outbox.NewRepository(tx), s.logg).Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit order status changed")
		}

		updated = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *Service) authorizeRead(ctx context.Context, order *models.Order, callerID uuid.UUID) error {
	if order.SupplierID == callerID {
		return nil
	}

	var group models.Group
	if err := s.db.DB().WithContext(ctx).First(&group, "id = ?", order.GroupID).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
	}
	if group.CreatedBy == callerID {
		return nil
	}
	if _, err := memberships.NewRepository(s.db.DB()).GetMembership(ctx, callerID, order.GroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to view this order")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check membership")
	}
	return nil
}

func toDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out
}
