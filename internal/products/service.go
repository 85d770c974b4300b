package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
	"github.com/bulkbite/bulkbite-backend/pkg/pagination"
)

// Service exposes the shared product catalog. Writes are admin-only; vendors
// and suppliers read from it when building carts and listings.
type Service struct {
	repo *Repository
}

// NewService builds a catalog service over the repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a catalog entry. Only admins may write to the shared catalog.
func (s *Service) Create(ctx context.Context, actorRole enums.UserRole, dto CreateProductDTO) (*ProductDTO, error) {
	if actorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can manage the catalog")
	}
	if !dto.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product unit")
	}
	if dto.BasePrice.IsNegative() || dto.BasePrice.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price must be positive")
	}

	product := &models.Product{
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
		Category:    strings.TrimSpace(dto.Category),
		Unit:        dto.Unit,
		BasePrice:   dto.BasePrice,
		ImageURL:    dto.ImageURL,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	result := FromModel(product)
	return &result, nil
}

// Update applies partial catalog changes. Only admins may write.
func (s *Service) Update(ctx context.Context, actorRole enums.UserRole, productID uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	if actorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can manage the catalog")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if dto.Description != nil {
		product.Description = dto.Description
	}
	if dto.Category != nil {
		category := strings.TrimSpace(*dto.Category)
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		product.Category = category
	}
	if dto.BasePrice != nil {
		if dto.BasePrice.IsNegative() || dto.BasePrice.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price must be positive")
		}
		product.BasePrice = *dto.BasePrice
	}
	if dto.ImageURL != nil {
		product.ImageURL = dto.ImageURL
	}
	if dto.IsActive != nil {
		product.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	result := FromModel(product)
	return &result, nil
}

// List returns one catalog page. Inactive products are only visible to admins.
func (s *Service) List(ctx context.Context, actorRole enums.UserRole, params pagination.Params, filters ListFilters) (*ListResult, error) {
	if actorRole != enums.UserRoleAdmin {
		filters.IncludeInactive = false
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, next, err := s.repo.List(ctx, listQuery{Limit: params.Limit, Cursor: cursor, Filters: filters})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, FromModel(&rows[i]))
	}
	return &ListResult{Items: items, Cursor: next}, nil
}

// Get returns the product with its available supplier listings.
func (s *Service) Get(ctx context.Context, productID uuid.UUID) (*DetailDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	listings, err := s.repo.ListingsForProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product listings")
	}

	return &DetailDTO{
		Product:  FromModel(product),
		Listings: listings,
	}, nil
}

// Categories lists the distinct active catalog categories.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return categories, nil
}
