package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
)

const (
	vendorGroupCountsSQL = `
SELECT
  COUNT(*) AS groups_joined,
  COUNT(*) FILTER (WHERE g.status = 'ACTIVE' AND (g.expires_at IS NULL OR g.expires_at > CURRENT_TIMESTAMP)) AS active_groups,
  COUNT(*) FILTER (WHERE g.created_by = @vendorID) AS groups_created
FROM group_members gm
JOIN groups g ON g.id = gm.group_id
WHERE gm.user_id = @vendorID
`

	vendorSpendSQL = `
SELECT
  COUNT(DISTINCT po.group_id) AS groups_ordered,
  COALESCE(SUM(po.total_price), 0) AS total_spend
FROM product_orders po
JOIN groups g ON g.id = po.group_id
WHERE po.vendor_id = @vendorID
  AND g.status IN ('ORDER_PLACED', 'COMPLETED')
`

	// Savings are estimated as the delivery charge the vendor avoided by
	// sharing it with the rest of the group, plus an equal cut of any
	// order-level discount.
	vendorSavingsSQL = `
SELECT COALESCE(SUM(
  o.delivery_charge - (o.delivery_charge / m.member_count)
  + (o.discount / m.member_count)
), 0) AS savings
FROM orders o
JOIN (
  SELECT group_id, COUNT(*) AS member_count
  FROM group_members
  GROUP BY group_id
) m ON m.group_id = o.group_id
WHERE o.status <> 'CANCELLED'
  AND EXISTS (
    SELECT 1 FROM group_members gm
    WHERE gm.group_id = o.group_id AND gm.user_id = @vendorID
  )
`

	supplierListingsSQL = `
SELECT
  COUNT(*) AS listing_count,
  COUNT(*) FILTER (WHERE is_available) AS available_listings
FROM supplier_listings
WHERE supplier_id = @supplierID
`

	supplierOrdersSQL = `
SELECT
  COUNT(*) AS order_count,
  COUNT(*) FILTER (WHERE status = 'PENDING') AS pending_orders,
  COALESCE(SUM(total_amount) FILTER (WHERE status = 'DELIVERED'), 0) AS delivered_revenue,
  COALESCE(SUM(total_amount) FILTER (WHERE status NOT IN ('CANCELLED')), 0) AS open_revenue
FROM orders
WHERE supplier_id = @supplierID
`
)

// VendorDashboard aggregates a vendor's group-buying activity.
type VendorDashboard struct {
	GroupsJoined    int64           `json:"groupsJoined"`
	GroupsCreated   int64           `json:"groupsCreated"`
	ActiveGroups    int64           `json:"activeGroups"`
	GroupsOrdered   int64           `json:"groupsOrdered"`
	TotalSpend      decimal.Decimal `json:"totalSpend"`
	SavingsEstimate decimal.Decimal `json:"savingsEstimate"`
}

// SupplierDashboard aggregates a supplier's listing and fulfillment activity.
type SupplierDashboard struct {
	ListingCount      int64           `json:"listingCount"`
	AvailableListings int64           `json:"availableListings"`
	OrderCount        int64           `json:"orderCount"`
	PendingOrders     int64           `json:"pendingOrders"`
	DeliveredRevenue  decimal.Decimal `json:"deliveredRevenue"`
	OpenRevenue       decimal.Decimal `json:"openRevenue"`
}

// Service answers dashboard queries with SQL aggregates over the primary
// database. Figures are approximate enough for dashboards; none of them
// feed back into order math.
type Service struct {
	db *gorm.DB
}

// NewService builds an analytics service over the primary database.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &Service{db: db}, nil
}

// VendorDashboard computes the vendor's aggregate view.
func (s *Service) VendorDashboard(ctx context.Context, vendorID uuid.UUID) (*VendorDashboard, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	param := map[string]any{"vendorID": vendorID}

	var groupCounts struct {
		GroupsJoined  int64
		ActiveGroups  int64
		GroupsCreated int64
	}
	if err := s.db.WithContext(ctx).Raw(vendorGroupCountsSQL, param).Scan(&groupCounts).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query vendor group counts")
	}

	var spend struct {
		GroupsOrdered int64
		TotalSpend    decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Raw(vendorSpendSQL, param).Scan(&spend).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query vendor spend")
	}

	var savings struct {
		Savings decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Raw(vendorSavingsSQL, param).Scan(&savings).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query vendor savings")
	}

	return &VendorDashboard{
		GroupsJoined:    groupCounts.GroupsJoined,
		GroupsCreated:   groupCounts.GroupsCreated,
		ActiveGroups:    groupCounts.ActiveGroups,
		GroupsOrdered:   spend.GroupsOrdered,
		TotalSpend:      spend.TotalSpend,
		SavingsEstimate: savings.Savings.Round(2),
	}, nil
}

// SupplierDashboard computes the supplier's aggregate view.
func (s *Service) SupplierDashboard(ctx context.Context, supplierID uuid.UUID) (*SupplierDashboard, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}

	param := map[string]any{"supplierID": supplierID}

	var listings struct {
		ListingCount      int64
		AvailableListings int64
	}
	if err := s.db.WithContext(ctx).Raw(supplierListingsSQL, param).Scan(&listings).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query supplier listings")
	}

	var orders struct {
		OrderCount       int64
		PendingOrders    int64
		DeliveredRevenue decimal.Decimal
		OpenRevenue      decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Raw(supplierOrdersSQL, param).Scan(&orders).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query supplier orders")
	}

	return &SupplierDashboard{
		ListingCount:      listings.ListingCount,
		AvailableListings: listings.AvailableListings,
		OrderCount:        orders.OrderCount,
		PendingOrders:     orders.PendingOrders,
		DeliveredRevenue:  orders.DeliveredRevenue,
		OpenRevenue:       orders.OpenRevenue,
	}, nil
}
