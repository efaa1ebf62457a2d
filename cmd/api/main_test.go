package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/config"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/events"
	"github.com/cleanclear-sd/lead-api/internal/storage"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewApp_ServesPublicAndGuardsAdminRoutes(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Server.EnableSwagger = false

	db := testutil.SetupTestDB(t)
	files, err := storage.NewLocalStorage(afero.NewMemMapFs(), "/uploads")
	require.NoError(t, err)

	services, err := newApp(cfg, db, files, events.Nop{}, zap.NewNop())
	require.NoError(t, err)
	h := services.router(cfg, db, nil, nil, zap.NewNop()).Setup()

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:4000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/api/v1/catalog", "").Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/api/v1/content/hero", "").Code, "content schema is loaded")

	w := serve(http.MethodPost, "/api/v1/contact", `{"name":"Lee","email":"lee@example.com","message":"Hello"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var count int64
	require.NoError(t, db.Model(&domain.ContactSubmission{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	for _, path := range []string{"/api/v1/admin/leads", "/api/v1/admin/customers", "/api/v1/admin/jobs"} {
		assert.Equal(t, http.StatusUnauthorized, serve(http.MethodGet, path, "").Code, path)
	}
}
