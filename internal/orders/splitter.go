package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/internal/memberships"
	"github.com/bulkbite/bulkbite-backend/internal/productorders"
	dbpkg "github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
)

// Splitter computes each contributing vendor's share of a consolidated
// order. Delivery and tax divide evenly across ALL group members, but only
// vendors who contributed product orders appear in the output: a member who
// ordered nothing lowers everyone's per-head share without being billed for
// their own. That asymmetry is intentional and pinned by tests.
type Splitter struct {
	db *dbpkg.Client
}

// NewSplitter builds a splitter over the database client.
func NewSplitter(db *dbpkg.Client) *Splitter {
	return &Splitter{db: db}
}

// Split returns the per-vendor cost breakdown for the order.
func (s *Splitter) Split(ctx context.Context, orderID uuid.UUID) (*CostSplit, error) {
	order, err := NewRepository(s.db.DB()).FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	memberIDs, err := memberships.NewRepository(s.db.DB()).ListMemberIDs(ctx, order.GroupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list member ids")
	}

	productOrders, err := productorders.NewRepository(s.db.DB()).ListByGroup(ctx, order.GroupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product orders")
	}

	return ComputeSplit(order, len(memberIDs), productOrders)
}

// ComputeSplit divides the order's shared costs across memberCount members
// and bills each contributing vendor their product total plus the per-head
// delivery and tax shares.
func ComputeSplit(order *models.Order, memberCount int, productOrders []models.ProductOrder) (*CostSplit, error) {
	if memberCount == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDivision, "cost split requires at least one group member")
	}

	members := decimal.NewFromInt(int64(memberCount))
	deliveryShare := order.DeliveryCharge.Div(members).Round(2)
	taxShare := order.Tax.Div(members).Round(2)

	totalsByVendor := map[uuid.UUID]decimal.Decimal{}
	vendorOrder := make([]uuid.UUID, 0)
	for _, po := range productOrders {
		if _, seen := totalsByVendor[po.VendorID]; !seen {
			vendorOrder = append(vendorOrder, po.VendorID)
		}
		totalsByVendor[po.VendorID] = totalsByVendor[po.VendorID].Add(po.TotalPrice)
	}

	shares := make([]VendorShare, 0, len(vendorOrder))
	for _, vendorID := range vendorOrder {
		productTotal := totalsByVendor[vendorID].Round(2)
		shares = append(shares, VendorShare{
			VendorID:      vendorID,
			ProductTotal:  productTotal,
			DeliveryShare: deliveryShare,
			TaxShare:      taxShare,
			FinalAmount:   productTotal.Add(deliveryShare).Add(taxShare).Round(2),
		})
	}

	return &CostSplit{
		OrderID:        order.ID,
		Subtotal:       order.Subtotal,
		DeliveryCharge: order.DeliveryCharge,
		Tax:            order.Tax,
		MemberCount:    memberCount,
		DeliveryShare:  deliveryShare,
		TaxShare:       taxShare,
		Shares:         shares,
	}, nil
}
