package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/safeegypt/incident-reporting/internal/api/middleware"
	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

type stubAuthService struct {
	loginFn          func(ctx context.Context, username, password string) (string, *domain.DashboardUser, error)
	changePasswordFn func(ctx context.Context, userID uint, oldPassword, newPassword string) (bool, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.DashboardUser, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) ResolveToken(context.Context, string) (*domain.DashboardUser, error) {
	return nil, nil
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) (bool, error) {
	return s.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

func (s *stubAuthService) CreateDashboardUser(context.Context, string, string, string) (*domain.DashboardUser, error) {
	return nil, errors.New("not implemented")
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withUser(c echo.Context, user *domain.DashboardUser) {
	middleware.SetDashboardUser(c, user)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.DashboardUser, error) {
			if username != "admin" || password != "Admin@123" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.DashboardUser{ID: 1, Username: "admin", PasswordHash: "$2a$secret", IsActive: true}, nil
		},
	}
	c, rec := jsonContext(e, http.MethodPost, "/api/dashboard/login", `{"username":"admin","password":"Admin@123"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "$2a$secret") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	caps, _ := user["capabilities"].([]any)
	if len(caps) != 1 || caps[0] != string(domain.CapabilityReviewIncidents) {
		t.Fatalf("unexpected capabilities: %v", user["capabilities"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.DashboardUser, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := jsonContext(e, http.MethodPost, "/api/dashboard/login", `{"username":"admin","password":"wrong"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_BadRequests(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.DashboardUser, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	for name, body := range map[string]string{
		"malformed json":   "{",
		"missing password": `{"username":"admin"}`,
	} {
		c, _ := jsonContext(newTestEcho(), http.MethodPost, "/api/dashboard/login", body)
		err := NewAuthHandler(stub).Login(c)

		var he *echo.HTTPError
		if !errors.Is(err, domain.ErrValidation) && !(errors.As(err, &he) && he.Code == http.StatusBadRequest) {
			t.Errorf("%s: expected a 400 error, got %v", name, err)
		}
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	c, rec := jsonContext(e, http.MethodGet, "/api/dashboard/me", "")
	withUser(c, &domain.DashboardUser{ID: 4, Username: "sara", FullName: "Sara M", IsActive: true})

	if err := NewAuthHandler(&stubAuthService{}).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"username":"sara"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Me_WithoutUser(t *testing.T) {
	c, _ := jsonContext(newTestEcho(), http.MethodGet, "/api/dashboard/me", "")

	err := NewAuthHandler(&stubAuthService{}).Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	var gotID uint
	stub := &stubAuthService{
		changePasswordFn: func(_ context.Context, userID uint, oldPassword, newPassword string) (bool, error) {
			gotID = userID
			if oldPassword != "oldpass12" || newPassword != "newpass12" {
				return false, domain.ErrInvalidCredentials
			}
			return true, nil
		},
	}

	c, rec := jsonContext(newTestEcho(), http.MethodPost, "/api/dashboard/password", `{"old_password":"oldpass12","new_password":"newpass12"}`)
	withUser(c, &domain.DashboardUser{ID: 9, IsActive: true})
	if err := NewAuthHandler(stub).ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotID != 9 || !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("unexpected result id=%d body=%s", gotID, rec.Body.String())
	}

	c, _ = jsonContext(newTestEcho(), http.MethodPost, "/api/dashboard/password", `{"old_password":"oldpass12","new_password":"short"}`)
	withUser(c, &domain.DashboardUser{ID: 9, IsActive: true})
	if err := NewAuthHandler(stub).ChangePassword(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}
}
