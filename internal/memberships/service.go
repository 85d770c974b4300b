package memberships

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox/payloads"
)

// Service implements joining and leaving buying groups.
type Service struct {
	db   *dbpkg.Client
	logg *logger.Logger
}

// NewService builds a membership service over the database client.
func NewService(db *dbpkg.Client, logg *logger.Logger) *Service {
	return &Service{db: db, logg: logg}
}

// Join adds the user to an ACTIVE, non-full group as a plain member.
func (s *Service) Join(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error) {
	var membership *models.GroupMember
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		var group models.Group
		if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
		}
		if group.Status != enums.GroupStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "group is not accepting members")
		}
		if group.IsExpired(time.Now().UTC()) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "group has expired")
		}

		count, err := repo.CountMembers(ctx, groupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count members")
		}
		if count >= int64(group.MaxMembers) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "group is full")
		}

		created, err := repo.CreateMembership(ctx, groupID, userID, enums.MemberRoleMember)
		if err != nil {
			if dbpkg.IsUniqueViolation(err, "idx_group_members_group_user") {
				return pkgerrors.New(pkgerrors.CodeConflict, "already a member of this group")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create membership")
		}
		membership = created

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		memberIDs, err := repo.ListMemberIDs(ctx, groupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list member ids")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventMemberJoined,
			AggregateType: enums.AggregateMembership,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: string(user.Role)},
			Data: payloads.MemberJoinedEvent{
				GroupID:   groupID,
				GroupName: group.Name,
				UserID:    userID,
				UserName:  user.Name,
				JoinedAt:  created.JoinedAt,
				MemberIDs: memberIDs,
			},
			Version: 1,
		}
		if err := outbox.NewService(outbox.NewRepository(tx), s.logg).Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit member joined")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// Leave removes the user from the group. The creator cannot leave their own
// group; they cancel or delete it instead.
func (s *Service) Leave(ctx context.Context, groupID, userID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		var group models.Group
		if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
		}
		if group.CreatedBy == userID {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "creator cannot leave their own group")
		}

		affected, err := repo.DeleteMembership(ctx, groupID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete membership")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "not a member of this group")
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		memberIDs, err := repo.ListMemberIDs(ctx, groupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list member ids")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventMemberLeft,
			AggregateType: enums.AggregateMembership,
			AggregateID:   groupID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: string(user.Role)},
			Data: payloads.MemberLeftEvent{
				GroupID:   groupID,
				GroupName: group.Name,
				UserID:    userID,
				UserName:  user.Name,
				MemberIDs: memberIDs,
			},
			Version: 1,
		}
		if err := outbox.NewService(outbox.NewRepository(tx), s.logg).Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit member left")
		}
		return nil
	})
}

// ListMembers returns the group's members with user names.
func (s *Service) ListMembers(ctx context.Context, groupID uuid.UUID) ([]MemberWithUser, error) {
	repo := NewRepository(s.db.DB())
	members, err := repo.ListMembersWithUsers(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list members")
	}
	return members, nil
}
