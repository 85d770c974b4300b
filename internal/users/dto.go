package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	Phone        *string        `json:"phone,omitempty"`
	Role         enums.UserRole `json:"role"`
	BusinessName *string        `json:"business_name,omitempty"`
	BusinessType *string        `json:"business_type,omitempty"`
	City         *string        `json:"city,omitempty"`
	Area         *string        `json:"area,omitempty"`
	IsActive     bool           `json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	Role         enums.UserRole
	BusinessName *string
	BusinessType *string
	City         *string
	Area         *string
}

// UpdateUserDTO carries the mutable profile fields; nil means unchanged.
type UpdateUserDTO struct {
	Name         *string
	Phone        *string
	BusinessName *string
	BusinessType *string
	City         *string
	Area         *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		Role:         u.Role,
		BusinessName: u.BusinessName,
		BusinessType: u.BusinessType,
		City:         u.City,
		Area:         u.Area,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Phone:        c.Phone,
		Role:         c.Role,
		BusinessName: c.BusinessName,
		BusinessType: c.BusinessType,
		City:         c.City,
		Area:         c.Area,
		IsActive:     true,
	}
}

func (u UpdateUserDTO) columns() map[string]any {
	updates := map[string]any{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.BusinessName != nil {
		updates["business_name"] = *u.BusinessName
	}
	if u.BusinessType != nil {
		updates["business_type"] = *u.BusinessType
	}
	if u.City != nil {
		updates["city"] = *u.City
	}
	if u.Area != nil {
		updates["area"] = *u.Area
	}
	return updates
}
