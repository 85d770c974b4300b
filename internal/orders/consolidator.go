package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/internal/memberships"
	"github.com/bulkbite/bulkbite-backend/internal/productorders"
	"github.com/bulkbite/bulkbite-backend/internal/suppliers"
	"github.com/bulkbite/bulkbite-backend/pkg/config"
	dbpkg "github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox/payloads"
)

// Consolidator turns a group's product orders into one supplier-facing
// order. The group status move is a compare-and-swap so that concurrent
// invocations cannot both place an order; the unique index on
// orders.group_id backs the same invariant at the storage layer.
type Consolidator struct {
	db     *dbpkg.Client
	policy config.PolicyConfig
	logg   *logger.Logger
}

// NewConsolidator builds a consolidator with the pricing policy applied to
// every order it creates.
func NewConsolidator(db *dbpkg.Client, policy config.PolicyConfig, logg *logger.Logger) *Consolidator {
	return &Consolidator{db: db, policy: policy, logg: logg}
}

// Consolidate places the order for the group. The caller must be the
// group's creator or hold a managing membership role.
func (c *Consolidator) Consolidate(ctx context.Context, groupID, callerID uuid.UUID, req ConsolidateRequest) (*OrderDTO, error) {
	if req.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_id is required")
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery_address is required")
	}

	var created *models.Order
	err := c.db.WithTx(ctx, func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
		}

		membershipRepo := memberships.NewRepository(tx)
		if group.CreatedBy != callerID {
			ok, err := membershipRepo.UserHasRole(ctx, callerID, groupID, enums.MemberRoleAdmin, enums.MemberRoleModerator)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check member role")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to place this group's order")
			}
		}

		var supplier models.User
		if err := tx.First(&supplier, "id = ? AND role = ?", req.SupplierID, enums.UserRoleSupplier).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load supplier")
		}

		// Compare-and-swap on the status column. Losing the race, or a
		// group already past ACTIVE, both surface as zero rows moved.
		res := tx.Model(&models.Group{}).
			Where("id = ? AND status = ?", groupID, enums.GroupStatusActive).
			Updates(map[string]any{"status": enums.GroupStatusOrderPlaced, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "transition group status")
		}
		if res.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "group is not open for consolidation")
		}

		productOrders, err := productorders.NewRepository(tx).ListByGroupTx(tx, groupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product orders")
		}
		if len(productOrders) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyOrder, "group has no product orders")
		}

		subtotal := decimal.Zero
		for _, po := range productOrders {
			subtotal = subtotal.Add(po.TotalPrice)
		}
		subtotal = subtotal.Round(2)
		deliveryCharge := c.policy.DeliveryChargeAmount()
		tax := subtotal.Mul(c.policy.TaxRate()).Round(2)
		discount := decimal.Zero
		total := subtotal.Add(deliveryCharge).Add(tax).Sub(discount).Round(2)

		order := &models.Order{
			GroupID:         groupID,
			SupplierID:      req.SupplierID,
			OrderNumber:     NewOrderNumber(groupID, time.Now()),
			Subtotal:        subtotal,
			DeliveryCharge:  deliveryCharge,
			Tax:             tax,
			Discount:        discount,
			TotalAmount:     total,
			Status:          enums.OrderStatusPending,
			PaymentStatus:   enums.PaymentStatusUnpaid,
			DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
			DeliveryNotes:   req.DeliveryNotes,
		}
		if err := NewRepository(tx).CreateTx(tx, order); err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_orders_group") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "group already has a placed order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		if err := suppliers.NewRepository(tx).IncrementTotalOrdersTx(tx, req.SupplierID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment supplier orders")
		}

		memberIDs, err := membershipRepo.ListMemberIDs(ctx, groupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list member ids")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: callerID},
			Data: payloads.OrderPlacedEvent{
				OrderID:     order.ID,
				GroupID:     groupID,
				SupplierID:  req.SupplierID,
				OrderNumber: order.OrderNumber,
				GroupName:   group.Name,
				TotalAmount: order.TotalAmount,
				PlacedBy:    callerID,
				MemberIDs:   memberIDs,
			},
			Version: 1,
		}
		if err := outbox.NewService(outbox.NewRepository(tx), c.logg).Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit order placed")
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

// NewOrderNumber derives a human-readable order number from the placement
// time and the group id. Uniqueness is best-effort here; the unique index
// on order_number is the backstop.
func NewOrderNumber(groupID uuid.UUID, at time.Time) string {
	suffix := strings.ReplaceAll(groupID.String(), "-", "")
	return fmt.Sprintf("ORD-%d-%s", at.UnixMilli(), suffix[len(suffix)-4:])
}
