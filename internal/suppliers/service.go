package suppliers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
)

// Service exposes supplier profile and listing operations to controllers.
type Service struct {
	repo *Repository
}

// NewService builds a supplier service over the repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the supplier profile for the given user.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load supplier profile")
	}
	return ProfileFromModel(profile), nil
}

// UpdateProfile applies profile changes for the supplier user.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateProfileDTO) (*ProfileDTO, error) {
	if dto.CompanyName != nil && strings.TrimSpace(*dto.CompanyName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company_name cannot be empty")
	}
	profile, err := s.repo.UpdateProfile(ctx, userID, dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update supplier profile")
	}
	return ProfileFromModel(profile), nil
}

// CreateListing persists a new listing for the supplier. A supplier may hold
// at most one listing per product.
func (s *Service) CreateListing(ctx context.Context, supplierID uuid.UUID, dto UpsertListingDTO) (*ListingDTO, error) {
	if err := validateListingInput(dto); err != nil {
		return nil, err
	}

	listing := &models.SupplierListing{
		SupplierID:        supplierID,
		ProductID:         dto.ProductID,
		PricePerUnit:      dto.PricePerUnit,
		MinOrderQuantity:  dto.MinOrderQuantity,
		MaxOrderQuantity:  dto.MaxOrderQuantity,
		IsAvailable:       true,
		DeliveryTimeHours: dto.DeliveryTimeHours,
		DiscountTiers:     tierModels(uuid.Nil, dto.DiscountTiers),
	}
	if dto.IsAvailable != nil {
		listing.IsAvailable = *dto.IsAvailable
	}
	if listing.MinOrderQuantity < 1 {
		listing.MinOrderQuantity = 1
	}

	if err := s.repo.CreateListing(ctx, listing); err != nil {
		if dbpkg.IsUniqueViolation(err, "idx_supplier_listings_supplier_product") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "listing already exists for this product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create listing")
	}
	return ListingFromModel(listing), nil
}

// UpdateListing replaces the mutable fields and tiers of a listing owned by
// the supplier.
func (s *Service) UpdateListing(ctx context.Context, supplierID, listingID uuid.UUID, dto UpsertListingDTO) (*ListingDTO, error) {
	if err := validateListingInput(dto); err != nil {
		return nil, err
	}

	listing, err := s.repo.FindListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listing")
	}
	if listing.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another supplier")
	}

	listing.PricePerUnit = dto.PricePerUnit
	listing.MinOrderQuantity = dto.MinOrderQuantity
	if listing.MinOrderQuantity < 1 {
		listing.MinOrderQuantity = 1
	}
	listing.MaxOrderQuantity = dto.MaxOrderQuantity
	listing.DeliveryTimeHours = dto.DeliveryTimeHours
	if dto.IsAvailable != nil {
		listing.IsAvailable = *dto.IsAvailable
	}

	tiers := tierModels(listing.ID, dto.DiscountTiers)
	if err := s.repo.UpdateListing(ctx, listing, tiers); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update listing")
	}

	updated, err := s.repo.FindListingByID(ctx, listing.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload listing")
	}
	return ListingFromModel(updated), nil
}

// DeleteListing removes a listing owned by the supplier.
func (s *Service) DeleteListing(ctx context.Context, supplierID, listingID uuid.UUID) error {
	affected, err := s.repo.DeleteListing(ctx, listingID, supplierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete listing")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	return nil
}

// ListMyListings returns the supplier's own listings.
func (s *Service) ListMyListings(ctx context.Context, supplierID uuid.UUID) ([]ListingDTO, error) {
	listings, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list listings")
	}
	out := make([]ListingDTO, 0, len(listings))
	for i := range listings {
		out = append(out, *ListingFromModel(&listings[i]))
	}
	return out, nil
}

func validateListingInput(dto UpsertListingDTO) error {
	if dto.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if dto.PricePerUnit.IsNegative() || dto.PricePerUnit.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_per_unit must be positive")
	}
	if dto.MaxOrderQuantity != nil && *dto.MaxOrderQuantity < dto.MinOrderQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "max_order_quantity cannot be below min_order_quantity")
	}
	for _, tier := range dto.DiscountTiers {
		if tier.MinQuantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier min_quantity must be positive")
		}
		if tier.PricePerUnit.IsNegative() || tier.PricePerUnit.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier price_per_unit must be positive")
		}
	}
	return nil
}

func tierModels(listingID uuid.UUID, tiers []TierInput) []models.ListingDiscountTier {
	out := make([]models.ListingDiscountTier, 0, len(tiers))
	for i, tier := range tiers {
		row := models.ListingDiscountTier{
			Position:     i,
			MinQuantity:  tier.MinQuantity,
			PricePerUnit: tier.PricePerUnit,
		}
		if listingID != uuid.Nil {
			row.ListingID = listingID
		}
		out = append(out, row)
	}
	return out
}
