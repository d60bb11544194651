package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func serveReadiness(t *testing.T, h *ReadinessHandler) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	require.NoError(t, h.Readiness(c))

	var body readinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	require.NoError(t, NewHealthHandler("v1.2.3").Liveness(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "v1.2.3")
}

func TestReadiness_AllHealthy(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rec, body := serveReadiness(t, NewReadinessHandler(SQLCheck(db), RedisCheck(client)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Dependencies["database"].Status)
	assert.Equal(t, "ok", body.Dependencies["redis"].Status)
}

func TestReadiness_Degraded(t *testing.T) {
	failing := Check{Name: "mongodb", Ping: func(context.Context) error { return errors.New("no reachable servers") }}
	ok := Check{Name: "database", Ping: func(context.Context) error { return nil }}

	rec, body := serveReadiness(t, NewReadinessHandler(ok, failing))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unhealthy", body.Dependencies["mongodb"].Status)
	assert.Equal(t, "no reachable servers", body.Dependencies["mongodb"].Error)
	assert.Equal(t, "ok", body.Dependencies["database"].Status)
}
