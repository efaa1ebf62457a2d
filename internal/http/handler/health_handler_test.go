package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/datawarehouse"
	"github.com/cleanclear-sd/lead-api/internal/http/handler"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type unhealthyWarehouse struct{}

func (unhealthyWarehouse) HealthCheck(context.Context) *datawarehouse.HealthStatus {
	return &datawarehouse.HealthStatus{Status: "unhealthy", Error: "login failed"}
}

func TestHealthHandler_Live(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestHealthHandler_Database(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/health/db", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "database", body["service"])
}

func TestHealthHandler_ReadyIgnoresWarehouseFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := handler.NewHealthHandler(db, unhealthyWarehouse{}, zap.NewNop())

	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "healthy", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "unhealthy", checks["dataWarehouse"].(map[string]interface{})["status"])
}

func TestHealthHandler_ReadyFailsWhenDatabaseDown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	h := handler.NewHealthHandler(db, nil, zap.NewNop())

	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
