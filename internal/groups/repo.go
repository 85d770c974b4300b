package groups

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	"github.com/bulkbite/bulkbite-backend/pkg/pagination"
)

// Repository handles group persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to group operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new group row.
func (r *Repository) Create(ctx context.Context, group *models.Group) error {
	if group == nil {
		return fmt.Errorf("group is required")
	}
	return r.db.WithContext(ctx).Create(group).Error
}

// FindByID loads a group without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByIDWithMembers loads a group with its members and product orders.
func (r *Repository) FindByIDWithMembers(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("ProductOrders").
		First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByIDTx loads a group inside the caller's transaction.
func (r *Repository) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*models.Group, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var group models.Group
	if err := tx.First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// List returns one cursor page of groups matching the filter.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Group, string, error) {
	pageSize := pagination.NormalizeLimit(filter.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filter.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(filter.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Group{}).Preload("Members")
	if filter.City != "" {
		qb = qb.Where("city = ?", filter.City)
	}
	if filter.Area != "" {
		qb = qb.Where("area = ?", filter.Area)
	}
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	if filter.OnlyActive {
		qb = qb.Where("status = ?", enums.GroupStatusActive).
			Where("(expires_at IS NULL OR expires_at > ?)", time.Now().UTC())
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var groups []models.Group
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&groups).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(groups) > pageSize {
		groups = groups[:pageSize]
		last := groups[len(groups)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return groups, nextCursor, nil
}

// UpdateStatusCAS performs a compare-and-swap on the group's status. It
// returns the number of rows moved; zero means the group was not in the
// expected state.
func (r *Repository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to enums.GroupStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// UpdateStatusCASTx is UpdateStatusCAS inside the caller's transaction.
func (r *Repository) UpdateStatusCASTx(tx *gorm.DB, id uuid.UUID, from, to enums.GroupStatus) (int64, error) {
	if tx == nil {
		return 0, gorm.ErrInvalidTransaction
	}
	res := tx.Model(&models.Group{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// Delete removes a group; members and product orders cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Group{}, "id = ?", id).Error
}

// ListExpiredActive returns ACTIVE groups whose advisory expiry has passed.
func (r *Repository) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", enums.GroupStatusActive, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
