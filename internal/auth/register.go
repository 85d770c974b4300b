package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/internal/suppliers"
	"github.com/bulkbite/bulkbite-backend/internal/users"
	"github.com/bulkbite/bulkbite-backend/pkg/config"
	"github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
	"github.com/bulkbite/bulkbite-backend/pkg/security"
)

// RegisterRequest contains the payload required for onboarding a new user.
// Suppliers additionally provide the company name used for their profile.
type RegisterRequest struct {
	Name         string         `json:"name" validate:"required"`
	Email        string         `json:"email" validate:"required,email"`
	Password     string         `json:"password" validate:"required,min=8"`
	Phone        *string        `json:"phone,omitempty"`
	Role         enums.UserRole `json:"role" validate:"required"`
	BusinessName *string        `json:"business_name,omitempty"`
	BusinessType *string        `json:"business_type,omitempty"`
	City         *string        `json:"city,omitempty"`
	Area         *string        `json:"area,omitempty"`
	CompanyName  *string        `json:"company_name,omitempty"`
	Description  *string        `json:"description,omitempty"`
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !req.Role.IsValid() || req.Role == enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if req.Role == enums.UserRoleSupplier {
		if req.CompanyName == nil || strings.TrimSpace(*req.CompanyName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company_name is required for suppliers")
		}
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		supplierRepo := suppliers.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			Name:         strings.TrimSpace(req.Name),
			Phone:        req.Phone,
			Role:         req.Role,
			BusinessName: req.BusinessName,
			BusinessType: req.BusinessType,
			City:         req.City,
			Area:         req.Area,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if req.Role == enums.UserRoleSupplier {
			if _, err := supplierRepo.CreateProfile(ctx, suppliers.CreateProfileDTO{
				UserID:      user.ID,
				CompanyName: strings.TrimSpace(*req.CompanyName),
				Description: req.Description,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier profile")
			}
		}

		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
