package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/bulkbite/bulkbite-backend/api/middleware"
	"github.com/bulkbite/bulkbite-backend/internal/notifications"
)

type stubNotificationsService struct {
	listParams  notifications.ListParams
	listResult  *notifications.ListResult
	unread      int64
	markedRead  []uuid.UUID
	markAllUser uuid.UUID
}

func (s *stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	s.listParams = params
	if s.listResult != nil {
		return s.listResult, nil
	}
	return &notifications.ListResult{}, nil
}

func (s *stubNotificationsService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.unread, nil
}

func (s *stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	s.markedRead = append(s.markedRead, notificationID)
	return nil
}

func (s *stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.markAllUser = userID
	return 4, nil
}

func authedRequest(method, target string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := middleware.WithUserID(req.Context(), userID.String())
	return req.WithContext(ctx)
}

func TestNotificationListForwardsFilters(t *testing.T) {
	svc := &stubNotificationsService{}
	handler := NotificationList(svc, testLogger())

	userID := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/notifications?limit=5&unread_only=true", userID)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.listParams.UserID != userID {
		t.Fatalf("user id not forwarded")
	}
	if svc.listParams.Limit != 5 || !svc.listParams.UnreadOnly {
		t.Fatalf("filters not forwarded: %+v", svc.listParams)
	}
}

func TestNotificationListRejectsAnonymous(t *testing.T) {
	handler := NotificationList(&stubNotificationsService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestNotificationUnreadCount(t *testing.T) {
	svc := &stubNotificationsService{unread: 7}
	handler := NotificationUnreadCount(svc, testLogger())

	req := authedRequest(http.MethodGet, "/api/v1/notifications/unread-count", uuid.New())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["unread_count"] != 7 {
		t.Fatalf("unexpected count payload: %+v", envelope.Data)
	}
}

func TestNotificationMarkAllRead(t *testing.T) {
	svc := &stubNotificationsService{}
	handler := NotificationMarkAllRead(svc, testLogger())

	userID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/notifications/read-all", userID)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.markAllUser != userID {
		t.Fatalf("mark-all not scoped to caller")
	}
}
