package groups

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/internal/memberships"
	dbpkg "github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox/payloads"
)

// Service implements the group CRUD and lifecycle operations.
type Service struct {
	db   *dbpkg.Client
	logg *logger.Logger
}

// NewService builds a group service over the database client.
func NewService(db *dbpkg.Client, logg *logger.Logger) *Service {
	return &Service{db: db, logg: logg}
}

// Create opens a new group; the creator becomes its admin member.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, req CreateGroupRequest) (*GroupDTO, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Area) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, city and area are required")
	}
	if req.MinMembers < 1 {
		req.MinMembers = 2
	}
	if req.MaxMembers < req.MinMembers {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_members cannot be below min_members")
	}
	if req.DeliveryRadius < 1 {
		req.DeliveryRadius = 5
	}

	group := &models.Group{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		City:           strings.TrimSpace(req.City),
		Area:           strings.TrimSpace(req.Area),
		DeliveryRadius: req.DeliveryRadius,
		MinMembers:     req.MinMembers,
		MaxMembers:     req.MaxMembers,
		Status:         enums.GroupStatusActive,
		ExpiresAt:      req.ExpiresAt,
		CreatedBy:      creatorID,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create group")
		}
		if _, err := memberships.NewRepository(tx).CreateMembership(ctx, group.ID, creatorID, enums.MemberRoleAdmin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create creator membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := FromModel(group)
	dto.MemberCount = 1
	return dto, nil
}

// Get returns the group with its members.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*GroupDTO, error) {
	repo := NewRepository(s.db.DB())
	group, err := repo.FindByIDWithMembers(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
	}

	dto := FromModel(group)
	members, err := memberships.NewRepository(s.db.DB()).ListMembersWithUsers(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list members")
	}
	dto.Members = make([]MemberDTO, 0, len(members))
	for _, m := range members {
		dto.Members = append(dto.Members, MemberDTO{
			UserID:   m.UserID,
			Name:     m.Name,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	dto.MemberCount = len(dto.Members)
	return dto, nil
}

// List returns one cursor page of groups.
func (s *Service) List(ctx context.Context, filter ListFilter) (*GroupPage, error) {
	repo := NewRepository(s.db.DB())
	groups, nextCursor, err := repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list groups")
	}

	page := &GroupPage{
		Groups:     make([]GroupDTO, 0, len(groups)),
		NextCursor: nextCursor,
	}
	for i := range groups {
		page.Groups = append(page.Groups, *FromModel(&groups[i]))
	}
	return page, nil
}

// UpdateStatus applies an explicit lifecycle transition. Only the creator or
// a member with a managing role may transition; the transition graph is
// validated server-side.
func (s *Service) UpdateStatus(ctx context.Context, groupID, userID uuid.UUID, target enums.GroupStatus) (*GroupDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid group status")
	}

	var updated *models.Group
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		group, err := repo.FindByIDTx(tx, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
		}

		if err := s.authorizeManage(ctx, tx, group, userID); err != nil {
			return err
		}
		if !group.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not permitted from current status")
		}

		affected, err := repo.UpdateStatusCASTx(tx, groupID, group.Status, target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update group status")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "group status changed concurrently")
		}

		memberIDs, err := memberships.NewRepository(tx).ListMemberIDs(ctx, groupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list member ids")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventGroupStatusChanged,
			AggregateType: enums.AggregateGroup,
			AggregateID:   groupID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.GroupStatusChangedEvent{
				GroupID:    groupID,
				GroupName:  group.Name,
				FromStatus: group.Status,
				ToStatus:   target,
				ChangedBy:  userID,
				MemberIDs:  memberIDs,
			},
			Version: 1,
		}
		if err := outbox.NewService(outbox.NewRepository(tx), s.logg).Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit group status changed")
		}

		group.Status = target
		updated = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// Delete removes a group. Only the creator may delete, and only before an
// order has been placed against it.
func (s *Service) Delete(ctx context.Context, groupID, userID uuid.UUID) error {
	repo := NewRepository(s.db.DB())
	group, err := repo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
	}
	if group.CreatedBy != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the creator can delete a group")
	}
	if group.Status == enums.GroupStatusOrderPlaced || group.Status == enums.GroupStatusCompleted {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "group already has a placed order")
	}
	if err := repo.Delete(ctx, groupID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete group")
	}
	return nil
}

func (s *Service) authorizeManage(ctx context.Context, tx *gorm.DB, group *models.Group, userID uuid.UUID) error {
	if group.CreatedBy == userID {
		return nil
	}
	ok, err := memberships.NewRepository(tx).UserHasRole(ctx, userID, group.ID, enums.MemberRoleAdmin, enums.MemberRoleModerator)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check member role")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to manage this group")
	}
	return nil
}
