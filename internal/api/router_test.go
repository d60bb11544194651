package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
)

type routerAuth struct{}

func (routerAuth) Login(_ context.Context, username, password string) (string, *domain.DashboardUser, error) {
	if username == "admin" && password == "Admin@123" {
		return "good-token", &domain.DashboardUser{ID: 1, Username: "admin", IsActive: true}, nil
	}
	return "", nil, domain.ErrInvalidCredentials
}

func (routerAuth) ResolveToken(_ context.Context, token string) (*domain.DashboardUser, error) {
	if token == "good-token" {
		return &domain.DashboardUser{ID: 1, Username: "admin", IsActive: true}, nil
	}
	return nil, nil
}

func (routerAuth) ChangePassword(context.Context, uint, string, string) (bool, error) {
	return true, nil
}

func (routerAuth) CreateDashboardUser(context.Context, string, string, string) (*domain.DashboardUser, error) {
	return nil, domain.ErrDuplicateUsername
}

type routerProfiles struct{}

func (routerProfiles) CreateOrGetProfile(_ context.Context, in ports.CreateProfileInput) (*domain.AppUser, bool, error) {
	return &domain.AppUser{ID: 1, NationalID: in.NationalID, FullName: in.FullName}, true, nil
}

func (routerProfiles) GetProfileByDeviceID(context.Context, string) (*domain.AppUser, error) {
	return nil, nil
}

type routerIncidents struct{}

func (routerIncidents) ReportIncident(context.Context, ports.ReportIncidentInput) (*ports.ReportIncidentResult, error) {
	return &ports.ReportIncidentResult{IncidentID: "inc-1", Status: domain.StatusPending}, nil
}

func (routerIncidents) ListIncidents(context.Context, ports.ListIncidentsInput) ([]*domain.Incident, error) {
	return []*domain.Incident{{IncidentID: "inc-1", Status: domain.StatusPending, Timestamp: time.Now()}}, nil
}

func (routerIncidents) GetIncidentDetail(context.Context, string) (*domain.IncidentDetail, error) {
	return nil, domain.ErrIncidentNotFound
}

func (routerIncidents) UpdateStatus(context.Context, string, string, *domain.DashboardUser) (bool, error) {
	return true, nil
}

func (routerIncidents) ReviewHistory(context.Context, string) ([]domain.ReviewRecord, error) {
	return nil, nil
}

func (routerIncidents) Stats(context.Context) (map[domain.IncidentStatus]int64, error) {
	return map[domain.IncidentStatus]int64{}, nil
}

func newTestRouter() http.Handler {
	return NewRouter(Deps{
		Log:       zerolog.Nop(),
		Version:   "test",
		Auth:      routerAuth{},
		Profiles:  routerProfiles{},
		Incidents: routerIncidents{},
		Registry:  prometheus.NewRegistry(),
	})
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_DashboardRequiresToken(t *testing.T) {
	h := newTestRouter()
	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/dashboard/incidents"},
		{http.MethodGet, "/api/dashboard/incidents/stats"},
		{http.MethodGet, "/api/dashboard/incident/inc-1"},
		{http.MethodGet, "/api/dashboard/incident/inc-1/history"},
		{http.MethodPost, "/api/dashboard/incident/inc-1/status"},
		{http.MethodGet, "/api/dashboard/me"},
		{http.MethodPost, "/api/dashboard/password"},
	}
	for _, p := range paths {
		if rec := do(t, h, p.method, p.path, "", ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: expected 401, got %d", p.method, p.path, rec.Code)
		}
		if rec := do(t, h, p.method, p.path, "", "forged"); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s with bad token: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestRouter_LoginThenList(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodPost, "/api/dashboard/login", `{"username":"admin","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/dashboard/login", `{"username":"admin","password":"Admin@123"}`, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "good-token") {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/dashboard/incidents", "", "good-token")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"count":1`) {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/dashboard/incident/missing", "", "good-token")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("expected 404 envelope, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AppRoutesArePublic(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodPost, "/api/app/incidents",
		`{"category":"Accident","description":"crash","location":{"latitude":30,"longitude":31}}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/app/incidents", `{"category":"Accident"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/app/profile/device/dev-1", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown device, got %d", rec.Code)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	h := newTestRouter()

	if rec := do(t, h, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}

	do(t, h, http.MethodGet, "/api/dashboard/incidents", "", "good-token")
	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "incident_reporting_http_requests_total") {
		t.Fatalf("metrics missing http counters: %d", rec.Code)
	}
}
