package handler_test

import (
	"net/http"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobHandler_ScheduleAndComplete(t *testing.T) {
	api := newTestAPI(t)
	customer := testutil.CreateTestCustomer(t, api.db, domain.Customer{})

	w := api.do(t, http.MethodPost, "/api/v1/admin/jobs", map[string]any{
		"customerId":    customer.ID,
		"services":      []string{"solar"},
		"scheduledDate": "2026-07-09",
		"scheduledTime": "10:00",
		"price":         220,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[domain.JobDTO](t, w)
	assert.Equal(t, "Solar Panel Cleaning", job.Title)
	assert.Equal(t, "Sam Reyes", job.CustomerName)

	w = api.do(t, http.MethodGet, "/api/v1/admin/jobs?month=2026-07", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]domain.JobDTO](t, w), 1)

	w = api.do(t, http.MethodGet, "/api/v1/admin/jobs?month=2026-08", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]domain.JobDTO](t, w))

	w = api.do(t, http.MethodPatch, "/api/v1/admin/jobs/"+job.ID.String()+"/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, decode[domain.JobDTO](t, w).CompletedAt)

	w = api.do(t, http.MethodGet, "/api/v1/admin/customers/"+customer.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 220.0, decode[domain.CustomerDetailDTO](t, w).TotalRevenue, 0.001)

	w = api.do(t, http.MethodDelete, "/api/v1/admin/jobs/"+job.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodGet, "/api/v1/admin/jobs/"+job.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobHandler_Errors(t *testing.T) {
	api := newTestAPI(t)
	customer := testutil.CreateTestCustomer(t, api.db, domain.Customer{})

	w := api.do(t, http.MethodPost, "/api/v1/admin/jobs", map[string]any{
		"customerId": customer.ID, "title": "Windows", "scheduledDate": "07/09/2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/admin/jobs", map[string]any{
		"customerId": uuid.New(), "title": "Windows", "scheduledDate": "2026-07-09",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/admin/jobs", map[string]any{
		"customerId": customer.ID, "scheduledDate": "2026-07-09",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "title or a service is required")

	w = api.do(t, http.MethodGet, "/api/v1/admin/jobs?month=July", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/admin/jobs?customerId=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/admin/jobs?status=paused", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
