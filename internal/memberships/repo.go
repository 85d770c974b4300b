package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetMembership retrieves a membership by user and group.
func (r *Repository) GetMembership(ctx context.Context, userID, groupID uuid.UUID) (*models.GroupMember, error) {
	var membership models.GroupMember
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateMembership persists a new membership record.
func (r *Repository) CreateMembership(ctx context.Context, groupID, userID uuid.UUID, role enums.MemberRole) (*models.GroupMember, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}

	membership := &models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    role,
	}
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// DeleteMembership removes the user's membership row.
func (r *Repository) DeleteMembership(ctx context.Context, groupID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	return res.RowsAffected, res.Error
}

// CountMembers returns the number of members in the group.
func (r *Repository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

// ListMemberIDs returns the user ids of every member in the group.
func (r *Repository) ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListGroupIDsForUser returns the ids of every group the user belongs to.
func (r *Repository) ListGroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UserHasRole reports whether the user holds one of the provided roles in
// the group.
func (r *Repository) UserHasRole(ctx context.Context, userID, groupID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("user_id = ? AND group_id = ? AND role IN ?", userID, groupID, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMembersWithUsers returns memberships joined with user names.
func (r *Repository) ListMembersWithUsers(ctx context.Context, groupID uuid.UUID) ([]MemberWithUser, error) {
	var rows []MemberWithUser
	err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Select("group_members.user_id, group_members.role, group_members.joined_at, users.name").
		Joins("JOIN users ON users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID).
		Order("group_members.joined_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
