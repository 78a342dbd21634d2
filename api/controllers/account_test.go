package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/darkstore-backend/api/middleware"
	"github.com/angelmondragon/darkstore-backend/internal/auth"
	"github.com/angelmondragon/darkstore-backend/internal/users"
	"github.com/angelmondragon/darkstore-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
)

var testJWT = config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60, CookieSecure: true}

type stubRegisterService struct {
	user *users.UserDTO
	err  error
	got  auth.RegisterRequest
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.got = req
	return s.user, s.err
}

type stubAuthService struct {
	resp       *auth.LoginResponse
	err        error
	revoked    string
	refreshReq auth.RefreshRequest
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.LoginResponse, error) {
	s.refreshReq = req
	return s.resp, s.err
}

type stubUserService struct {
	user     *users.UserDTO
	err      error
	update   users.UpdateUserRequest
	uploaded []byte
}

func (s *stubUserService) UserDetails(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return s.user, s.err
}

func (s *stubUserService) UpdateUser(ctx context.Context, id uuid.UUID, req users.UpdateUserRequest) (*users.UserDTO, error) {
	s.update = req
	return s.user, s.err
}

func (s *stubUserService) UploadAvatar(ctx context.Context, id uuid.UUID, r io.Reader) (*users.UserDTO, error) {
	data, _ := io.ReadAll(r)
	s.uploaded = data
	return s.user, s.err
}

func withUser(req *http.Request, id uuid.UUID) *http.Request {
	ctx := middleware.WithUserID(req.Context(), id.String())
	ctx = middleware.WithAccessID(ctx, "access-1")
	return req.WithContext(ctx)
}

func findCookie(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAccountRegisterCreated(t *testing.T) {
	svc := &stubRegisterService{user: &users.UserDTO{ID: uuid.New(), Email: "ana@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"secret123"}`))
	resp := httptest.NewRecorder()

	AccountRegister(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.got.Email != "ana@example.com" {
		t.Fatalf("request not forwarded: %+v", svc.got)
	}
}

func TestAccountRegisterValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(`{"name":"Ana","email":"nope","password":"secret123"}`))
	resp := httptest.NewRecorder()

	AccountRegister(&stubRegisterService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAccountLoginSetsCookies(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}}
	req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(`{"email":"ana@example.com","password":"secret123"}`))
	resp := httptest.NewRecorder()

	AccountLogin(svc, testJWT, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	access := findCookie(resp, middleware.AccessTokenCookie)
	if access == nil || access.Value != "access" || !access.HttpOnly || !access.Secure || access.MaxAge != 900 {
		t.Fatalf("unexpected access cookie %+v", access)
	}
	refresh := findCookie(resp, RefreshTokenCookie)
	if refresh == nil || refresh.Value != "refresh" || refresh.MaxAge != 3600 {
		t.Fatalf("unexpected refresh cookie %+v", refresh)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.AccessToken != "access" {
		t.Fatalf("expected access token in body got %q", envelope.Data.AccessToken)
	}
}

func TestAccountLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`))
	resp := httptest.NewRecorder()

	AccountLogin(svc, testJWT, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if findCookie(resp, middleware.AccessTokenCookie) != nil {
		t.Fatal("no cookie expected on failure")
	}
}

func TestAccountLogoutClearsCookies(t *testing.T) {
	svc := &stubAuthService{}
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/user/logout", nil), uuid.New())
	resp := httptest.NewRecorder()

	AccountLogout(svc, testJWT, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.revoked != "access-1" {
		t.Fatalf("expected access-1 revoked got %q", svc.revoked)
	}
	if c := findCookie(resp, RefreshTokenCookie); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected refresh cookie cleared got %+v", c)
	}
}

func TestAccountRefreshReadsCookies(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}}
	req := httptest.NewRequest(http.MethodPost, "/api/user/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "old-access"})
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "old-refresh"})
	resp := httptest.NewRecorder()

	AccountRefresh(svc, testJWT, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.refreshReq.AccessToken != "old-access" || svc.refreshReq.RefreshToken != "old-refresh" {
		t.Fatalf("unexpected refresh request %+v", svc.refreshReq)
	}
	if c := findCookie(resp, RefreshTokenCookie); c == nil || c.Value != "new-refresh" {
		t.Fatalf("expected rotated refresh cookie got %+v", c)
	}
}

func TestAccountRefreshPrefersBody(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{AccessToken: "a", RefreshToken: "r"}}
	req := httptest.NewRequest(http.MethodPost, "/api/user/refresh-token", strings.NewReader(`{"access_token":"body-access","refresh_token":"body-refresh"}`))
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "cookie-refresh"})
	resp := httptest.NewRecorder()

	AccountRefresh(svc, testJWT, nil).ServeHTTP(resp, req)
	if svc.refreshReq.RefreshToken != "body-refresh" || svc.refreshReq.AccessToken != "body-access" {
		t.Fatalf("unexpected refresh request %+v", svc.refreshReq)
	}
}

func TestAccountDetailsRequiresUser(t *testing.T) {
	resp := httptest.NewRecorder()
	AccountDetails(&stubUserService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/user/user-details", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAccountUpdate(t *testing.T) {
	svc := &stubUserService{user: &users.UserDTO{Name: "Ana B"}}
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/user/update-user", strings.NewReader(`{"name":"Ana B"}`)), uuid.New())
	resp := httptest.NewRecorder()

	AccountUpdate(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.update.Name == nil || *svc.update.Name != "Ana B" {
		t.Fatalf("name not forwarded: %+v", svc.update)
	}
}

func TestAccountUpdateForwardsPassword(t *testing.T) {
	svc := &stubUserService{user: &users.UserDTO{Name: "Ana"}}
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/user/update-user", strings.NewReader(`{"password":"n3wPassword"}`)), uuid.New())
	resp := httptest.NewRecorder()

	AccountUpdate(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.update.Password == nil || *svc.update.Password != "n3wPassword" {
		t.Fatalf("password not forwarded: %+v", svc.update)
	}
	if strings.Contains(resp.Body.String(), "n3wPassword") {
		t.Fatalf("password echoed in response")
	}
}

func multipartAvatar(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "avatar.png")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(data)
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestAccountUploadAvatar(t *testing.T) {
	svc := &stubUserService{user: &users.UserDTO{}}
	body, contentType := multipartAvatar(t, "avatar", []byte("\x89PNG\r\n\x1a\n"))
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/user/upload-avatar", body), uuid.New())
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	AccountUploadAvatar(svc, 1<<20, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !bytes.HasPrefix(svc.uploaded, []byte("\x89PNG")) {
		t.Fatalf("file not forwarded")
	}
}

func TestAccountUploadAvatarMissingField(t *testing.T) {
	body, contentType := multipartAvatar(t, "picture", []byte("data"))
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/user/upload-avatar", body), uuid.New())
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	AccountUploadAvatar(&stubUserService{}, 1<<20, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAccountUploadAvatarTooLarge(t *testing.T) {
	body, contentType := multipartAvatar(t, "avatar", bytes.Repeat([]byte("a"), 256<<10))
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/user/upload-avatar", body), uuid.New())
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	AccountUploadAvatar(&stubUserService{}, 1024, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
