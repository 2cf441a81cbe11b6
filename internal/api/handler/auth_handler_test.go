package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/userhub/account-service/internal/api/middleware"
	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

type stubAccountService struct {
	registerFn      func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn         func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn        func(ctx context.Context, actor *domain.User, token string) error
	listUsersFn     func(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	createUserFn    func(ctx context.Context, actor *domain.User, input ports.CreateUserInput) (*domain.User, error)
	viewProfileFn   func(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, actor *domain.User, targetID string, input ports.UpdateProfileInput) (*domain.User, error)
	deleteUserFn    func(ctx context.Context, actor *domain.User, targetID string) error
	changeRoleFn    func(ctx context.Context, actor *domain.User, targetID, role string) (*domain.User, error)
}

func (s *stubAccountService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) Logout(ctx context.Context, actor *domain.User, token string) error {
	return s.logoutFn(ctx, actor, token)
}

func (s *stubAccountService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	return s.listUsersFn(ctx, actor)
}

func (s *stubAccountService) CreateUser(ctx context.Context, actor *domain.User, input ports.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, actor, input)
}

func (s *stubAccountService) ViewProfile(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	return s.viewProfileFn(ctx, actor, targetID)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, actor *domain.User, targetID string, input ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, actor, targetID, input)
}

func (s *stubAccountService) DeleteUser(ctx context.Context, actor *domain.User, targetID string) error {
	return s.deleteUserFn(ctx, actor, targetID)
}

func (s *stubAccountService) ChangeRole(ctx context.Context, actor *domain.User, targetID, role string) (*domain.User, error) {
	return s.changeRoleFn(ctx, actor, targetID, role)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Name != "John Doe" || input.Email != "johndoe@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.Role != "" {
				t.Fatalf("expected empty role, got %s", input.Role)
			}
			return &domain.User{ID: "1", Name: input.Name, Email: input.Email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"name":"John Doe","email":"johndoe@example.com","password":"password123","password_confirmation":"password123"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", body), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["message"] != "User registered successfully." {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != domain.RoleUser {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, present := user["password_hash"]; present {
		t.Fatalf("password hash leaked into response")
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.NewValidationError().
				Add("name", "name is required").
				Add("email", "email is required").
				Add("password", "password is required")
		},
	}
	h := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{}`), rec)

	_ = h.Register(c)
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	errs, ok := resp["errors"].(map[string]any)
	if !ok {
		t.Fatalf("expected errors object, got %v", resp)
	}
	for _, field := range []string{"name", "email", "password"} {
		if _, present := errs[field]; !present {
			t.Fatalf("expected errors for %q, got %v", field, errs)
		}
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "johndoe@example.com" || password != "password123" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "1", Email: email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"email":"johndoe@example.com","password":"password123"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", body), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["access_token"] != "token123" {
		t.Fatalf("expected access_token, got %v", resp["access_token"])
	}
	if _, ok := resp["user"].(map[string]any); !ok {
		t.Fatalf("expected user in response")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	body := `{"email":"ghost@example.com","password":"whatever1"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", body), rec)

	_ = h.Login(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "Invalid credentials" {
		t.Fatalf("unexpected message")
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{}`), rec)

	_ = h.Login(c)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	errs, ok := decodeBody(t, rec)["errors"].(map[string]any)
	if !ok {
		t.Fatalf("expected errors object")
	}
	for _, field := range []string{"email", "password"} {
		if _, present := errs[field]; !present {
			t.Fatalf("expected errors for %q, got %v", field, errs)
		}
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	e := newTestEcho()
	actor := &domain.User{ID: "1", Role: domain.RoleUser}
	stub := &stubAccountService{
		logoutFn: func(_ context.Context, got *domain.User, token string) error {
			if got.ID != "1" || token != "live-token" {
				t.Fatalf("unexpected args: %+v %s", got, token)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/logout", ""), rec)
	c.Set(middleware.ActorKey, actor)
	c.Set(middleware.TokenKey, "live-token")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "User logged out successfully." {
		t.Fatalf("unexpected message")
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		logoutFn: func(context.Context, *domain.User, string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/logout", ""), rec)

	if err := h.Logout(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAccountService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/user", nil), rec)
	c.Set(middleware.ActorKey, &domain.User{ID: "7", Name: "Alice", Role: domain.RoleAdmin})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["id"] != "7" || resp["role"] != domain.RoleAdmin {
		t.Fatalf("unexpected payload: %v", resp)
	}
}
