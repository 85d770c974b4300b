package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbite/bulkbite-backend/internal/auth"
	"github.com/bulkbite/bulkbite-backend/internal/users"
	pkgAuth "github.com/bulkbite/bulkbite-backend/pkg/auth"
	"github.com/bulkbite/bulkbite-backend/pkg/auth/session"
	"github.com/bulkbite/bulkbite-backend/pkg/config"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "issuer",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 120,
	}
}

type stubAuthService struct {
	result *auth.LoginResponse
	err    error
	got    auth.LoginRequest
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubRegisterService struct {
	err error
	got auth.RegisterRequest
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &users.UserDTO{ID: uuid.New(), Email: req.Email}, nil
}

type stubRotator struct {
	rotateAccessID string
	rotateRefresh  string
	rotateErr      error
	revoked        []string
	rotatedFrom    string
}

func (s *stubRotator) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotatedFrom = oldAccessID
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return s.rotateAccessID, s.rotateRefresh, nil
}

func (s *stubRotator) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	svc := &stubAuthService{result: &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	}}
	handler := AuthLogin(svc, testLogger())

	body := `{"email":"ramu@chaatcart.in","password":"hunter2secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("X-BB-Token"); got != "access-token" {
		t.Fatalf("expected token header, got %q", got)
	}
	if svc.got.Email != "ramu@chaatcart.in" {
		t.Fatalf("login request not forwarded: %+v", svc.got)
	}
}

func TestAuthLoginRejectsMalformedBody(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthRegisterCreatesThenLogsIn(t *testing.T) {
	reg := &stubRegisterService{}
	svc := &stubAuthService{result: &auth.LoginResponse{AccessToken: "fresh-token"}}
	handler := AuthRegister(reg, svc, testLogger())

	body := `{
		"name":"Ramu Chaat",
		"email":"ramu@chaatcart.in",
		"password":"hunter2secret",
		"phone":"+919876543210",
		"role":"vendor",
		"business_name":"Ramu Chaat Cart",
		"city":"Mumbai",
		"area":"Dadar"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if reg.got.Email != "ramu@chaatcart.in" {
		t.Fatalf("register request not forwarded: %+v", reg.got)
	}
	if svc.got.Email != "ramu@chaatcart.in" {
		t.Fatalf("expected auto-login after register")
	}
	if got := resp.Header().Get("X-BB-Token"); got != "fresh-token" {
		t.Fatalf("expected token header after register, got %q", got)
	}
}

func TestAuthRefreshRotatesSession(t *testing.T) {
	cfg := testJWTConfig()
	oldAccessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleVendor,
		JTI:    oldAccessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	rotator := &stubRotator{rotateAccessID: session.NewAccessID(), rotateRefresh: "new-refresh"}
	handler := AuthRefresh(rotator, cfg, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if rotator.rotatedFrom != oldAccessID {
		t.Fatalf("rotate called with wrong access id: %s", rotator.rotatedFrom)
	}

	var envelope struct {
		Data refreshResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RefreshToken != "new-refresh" {
		t.Fatalf("expected rotated refresh token, got %q", envelope.Data.RefreshToken)
	}
	if envelope.Data.AccessToken == "" || envelope.Data.AccessToken == token {
		t.Fatalf("expected a newly minted access token")
	}
}

func TestAuthRefreshRejectsInvalidRefreshToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleVendor,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	rotator := &stubRotator{rotateErr: session.ErrInvalidRefreshToken}
	handler := AuthRefresh(rotator, cfg, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"stale"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	cfg := testJWTConfig()
	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleSupplier,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	rotator := &stubRotator{}
	handler := AuthLogout(rotator, cfg, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(rotator.revoked) != 1 || rotator.revoked[0] != accessID {
		t.Fatalf("expected session %s revoked, got %v", accessID, rotator.revoked)
	}
}

func TestAuthLogoutRejectsMissingToken(t *testing.T) {
	handler := AuthLogout(&stubRotator{}, testJWTConfig(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

type stubUserFinder struct {
	user *models.User
	err  error
}

func (s *stubUserFinder) FindByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

func TestAuthMeReturnsProfile(t *testing.T) {
	userID := uuid.New()
	finder := &stubUserFinder{user: &models.User{
		ID:    userID,
		Email: "asha@chaatcorner.in",
		Name:  "Asha",
		Role:  enums.UserRoleVendor,
	}}

	req := authedRequest(http.MethodGet, "/api/v1/auth/me", userID)
	rec := httptest.NewRecorder()
	AuthMe(finder, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data users.UserDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != userID {
		t.Fatalf("expected user %s got %s", userID, envelope.Data.ID)
	}
	if envelope.Data.Email != "asha@chaatcorner.in" {
		t.Fatalf("unexpected email %q", envelope.Data.Email)
	}
}

func TestAuthMeRejectsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	AuthMe(&stubUserFinder{}, testLogger())(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthMeMapsMissingUserToNotFound(t *testing.T) {
	finder := &stubUserFinder{err: gorm.ErrRecordNotFound}

	req := authedRequest(http.MethodGet, "/api/v1/auth/me", uuid.New())
	rec := httptest.NewRecorder()
	AuthMe(finder, testLogger())(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
