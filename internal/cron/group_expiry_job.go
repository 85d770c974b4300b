package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
)

const groupExpiryBatchSize = 500

type expiredGroupLister interface {
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]models.Group, error)
}

// GroupExpiryJobParams configure the expiry sweep.
type GroupExpiryJobParams struct {
	Logger     *logger.Logger
	Repository expiredGroupLister
	BatchSize  int
}

// NewGroupExpiryJob builds the advisory expiry sweep. Expiry never transitions
// a group; list endpoints filter expired groups themselves. The sweep only
// surfaces how many ACTIVE groups are sitting past their expiry so operators
// can see stale cohorts.
func NewGroupExpiryJob(params GroupExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("groups repository required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = groupExpiryBatchSize
	}
	return &groupExpiryJob{
		logg:      params.Logger,
		repo:      params.Repository,
		batchSize: batchSize,
		now:       time.Now,
	}, nil
}

type groupExpiryJob struct {
	logg      *logger.Logger
	repo      expiredGroupLister
	batchSize int
	now       func() time.Time
}

func (j *groupExpiryJob) Name() string { return "group-expiry-sweep" }

func (j *groupExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	groups, err := j.repo.ListExpiredActive(ctx, now, j.batchSize)
	if err != nil {
		return fmt.Errorf("list expired groups: %w", err)
	}

	if len(groups) == 0 {
		j.logg.Info(ctx, "no expired active groups")
		return nil
	}

	oldest := groups[0]
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"expired_count":   len(groups),
		"oldest_group_id": oldest.ID.String(),
		"oldest_expiry":   oldest.ExpiresAt,
		"truncated":       len(groups) == j.batchSize,
	})
	j.logg.Warn(logCtx, "active groups past their expiry")
	return nil
}
