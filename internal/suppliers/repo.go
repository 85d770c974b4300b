package suppliers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
)

// Repository handles supplier profile and listing persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to supplier operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateProfile persists a new supplier profile row.
func (r *Repository) CreateProfile(ctx context.Context, dto CreateProfileDTO) (*models.SupplierProfile, error) {
	profile := &models.SupplierProfile{
		UserID:      dto.UserID,
		CompanyName: dto.CompanyName,
		Description: dto.Description,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindProfileByUserID loads the profile belonging to the supplier user.
func (r *Repository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.SupplierProfile, error) {
	var profile models.SupplierProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateProfileDTO) (*models.SupplierProfile, error) {
	updates := map[string]any{}
	if dto.CompanyName != nil {
		updates["company_name"] = *dto.CompanyName
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.SupplierProfile{}).
			Where("user_id = ?", userID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindProfileByUserID(ctx, userID)
}

// IncrementTotalOrdersTx bumps the supplier's lifetime order counter inside
// the caller's transaction.
func (r *Repository) IncrementTotalOrdersTx(tx *gorm.DB, userID uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.SupplierProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("total_orders", gorm.Expr("total_orders + 1")).Error
}

// CreateListing persists a listing together with its tiers.
func (r *Repository) CreateListing(ctx context.Context, listing *models.SupplierListing) error {
	if listing == nil {
		return fmt.Errorf("listing is required")
	}
	return r.db.WithContext(ctx).Create(listing).Error
}

// FindListingByID loads a listing with tiers in position order.
func (r *Repository) FindListingByID(ctx context.Context, id uuid.UUID) (*models.SupplierListing, error) {
	var listing models.SupplierListing
	if err := r.db.WithContext(ctx).
		Preload("DiscountTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListBySupplier returns a supplier's listings with tiers.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.SupplierListing, error) {
	var listings []models.SupplierListing
	if err := r.db.WithContext(ctx).
		Preload("DiscountTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListAvailableForProduct returns available listings whose minimum order
// quantity admits the requested quantity, cheapest base price first. Tiers
// come back in stored position order.
func (r *Repository) ListAvailableForProduct(ctx context.Context, productID uuid.UUID, quantity int) ([]models.SupplierListing, error) {
	var listings []models.SupplierListing
	if err := r.db.WithContext(ctx).
		Preload("DiscountTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("product_id = ? AND is_available = ? AND min_order_quantity <= ?", productID, true, quantity).
		Order("price_per_unit ASC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateListing saves the listing row and replaces its tiers.
func (r *Repository) UpdateListing(ctx context.Context, listing *models.SupplierListing, tiers []models.ListingDiscountTier) error {
	if listing == nil {
		return fmt.Errorf("listing is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("DiscountTiers").Save(listing).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingDiscountTier{}).Error; err != nil {
			return err
		}
		if len(tiers) == 0 {
			return nil
		}
		return tx.Create(&tiers).Error
	})
}

// DeleteListing removes a listing; tiers cascade.
func (r *Repository) DeleteListing(ctx context.Context, id uuid.UUID, supplierID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND supplier_id = ?", id, supplierID).
		Delete(&models.SupplierListing{})
	return res.RowsAffected, res.Error
}
