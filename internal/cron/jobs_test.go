package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
)

type stubExpiredLister struct {
	groups []models.Group
	now    time.Time
	limit  int
}

func (s *stubExpiredLister) ListExpiredActive(_ context.Context, now time.Time, limit int) ([]models.Group, error) {
	s.now = now
	s.limit = limit
	return s.groups, nil
}

type stubCutoffDeleter struct {
	cutoff  time.Time
	deleted int64
}

func (s *stubCutoffDeleter) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.deleted, nil
}

func (s *stubCutoffDeleter) DeletePublishedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.deleted, nil
}

func TestGroupExpirySweepIsAdvisoryOnly(t *testing.T) {
	expiry := time.Now().Add(-time.Hour)
	repo := &stubExpiredLister{groups: []models.Group{
		{ID: uuid.New(), ExpiresAt: &expiry},
	}}
	job, err := NewGroupExpiryJob(GroupExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "group-expiry-sweep" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if repo.limit != groupExpiryBatchSize {
		t.Fatalf("expected default batch size %d, got %d", groupExpiryBatchSize, repo.limit)
	}
}

func TestNotificationCleanupUsesRetentionCutoff(t *testing.T) {
	repo := &stubCutoffDeleter{deleted: 12}
	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Repository: repo,
		Retention:  7,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	before := time.Now().UTC().Add(-7 * 24 * time.Hour)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	after := time.Now().UTC().Add(-7 * 24 * time.Hour)
	if repo.cutoff.Before(before) || repo.cutoff.After(after) {
		t.Fatalf("cutoff %v outside expected window [%v, %v]", repo.cutoff, before, after)
	}
}

func TestOutboxRetentionDefaultsRetention(t *testing.T) {
	repo := &stubCutoffDeleter{}
	job, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	expected := time.Now().UTC().Add(-time.Duration(outboxRetentionDays) * 24 * time.Hour)
	if diff := repo.cutoff.Sub(expected); diff > time.Minute || diff < -time.Minute {
		t.Fatalf("cutoff %v too far from expected %v", repo.cutoff, expected)
	}
}
