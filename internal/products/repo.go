package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/pagination"
)

// Repository provides persistence for the shared product catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new catalog row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update persists mutated catalog fields.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// FindByID loads a product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

type listQuery struct {
	Limit   int
	Cursor  *pagination.Cursor
	Filters ListFilters
}

// List returns one catalog page ordered newest first, plus the cursor for the
// next page when more rows exist.
func (r *Repository) List(ctx context.Context, query listQuery) ([]models.Product, string, error) {
	pageSize := pagination.NormalizeLimit(query.Limit)
	cursor := query.Cursor

	qb := r.db.WithContext(ctx).Model(&models.Product{})

	filters := query.Filters
	if !filters.IncludeInactive {
		qb = qb.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(filters.Category); category != "" {
		qb = qb.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(category) LIKE ?)", pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err := qb.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(query.Limit)).
		Find(&rows).
		Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// ListingsForProduct returns the available listings for a product with the
// offering supplier's company name, cheapest base price first.
func (r *Repository) ListingsForProduct(ctx context.Context, productID uuid.UUID) ([]ListingSummary, error) {
	type row struct {
		ListingID         uuid.UUID
		SupplierID        uuid.UUID
		CompanyName       string
		PricePerUnit      decimal.Decimal
		MinOrderQuantity  int
		MaxOrderQuantity  *int
		DeliveryTimeHours int
		TierCount         int
	}

	var records []row
	err := r.db.WithContext(ctx).
		Table("supplier_listings sl").
		Select(strings.Join([]string{
			"sl.id AS listing_id",
			"sl.supplier_id",
			"sp.company_name",
			"sl.price_per_unit",
			"sl.min_order_quantity",
			"sl.max_order_quantity",
			"sl.delivery_time_hours",
			"(SELECT COUNT(*) FROM listing_discount_tiers t WHERE t.listing_id = sl.id) AS tier_count",
		}, ", ")).
		Joins("JOIN supplier_profiles sp ON sp.user_id = sl.supplier_id").
		Where("sl.product_id = ? AND sl.is_available = ?", productID, true).
		Order("sl.price_per_unit ASC").
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ListingSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, ListingSummary{
			ListingID:         record.ListingID,
			SupplierID:        record.SupplierID,
			CompanyName:       record.CompanyName,
			PricePerUnit:      record.PricePerUnit,
			MinOrderQuantity:  record.MinOrderQuantity,
			MaxOrderQuantity:  record.MaxOrderQuantity,
			DeliveryTimeHours: record.DeliveryTimeHours,
			TierCount:         record.TierCount,
		})
	}
	return summaries, nil
}

// Categories returns the distinct categories present in the active catalog.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).
		Error
	return categories, err
}
