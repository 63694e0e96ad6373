package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up() Pinger { return PingFunc(func(context.Context) error { return nil }) }

func down() Pinger {
	return PingFunc(func(context.Context) error { return errors.New("connection refused") })
}

func callHealth(t *testing.T, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, handler(c))
	return rec
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandlers(up(), up(), up(), "test")
	rec := callHealth(t, h.HealthCheck)
	assert.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "test", status.Version)
	assert.Len(t, status.Services, 3)
}

func TestHealthCheck_DegradedDependency(t *testing.T) {
	h := NewHealthHandlers(up(), down(), up(), "test")
	rec := callHealth(t, h.HealthCheck)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "unhealthy", status.Services["redis"])
	assert.Equal(t, "healthy", status.Services["database"])
}

func TestReadinessCheck(t *testing.T) {
	assert.Equal(t, http.StatusOK, callHealth(t, NewHealthHandlers(up(), down(), down(), "").ReadinessCheck).Code)
	assert.Equal(t, http.StatusServiceUnavailable, callHealth(t, NewHealthHandlers(down(), up(), up(), "").ReadinessCheck).Code)
}

func TestLivenessCheck(t *testing.T) {
	h := NewHealthHandlers(down(), down(), down(), "")
	assert.Equal(t, http.StatusOK, callHealth(t, h.LivenessCheck).Code)
}
