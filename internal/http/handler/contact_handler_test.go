package handler_test

import (
	"net/http"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactPage struct {
	Data  []domain.ContactSubmissionDTO `json:"data"`
	Total int64                         `json:"total"`
}

func TestContactHandler_SubmitAndInbox(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/contact", map[string]string{
		"name":        "Lee",
		"email":       " lee@example.com ",
		"serviceType": "Window Cleaning",
		"message":     "Can you come Saturday?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	stored := decode[domain.ContactSubmissionDTO](t, w)
	assert.Equal(t, "lee@example.com", stored.Email)

	w = api.do(t, http.MethodGet, "/api/v1/admin/contact-submissions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[contactPage](t, w)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Can you come Saturday?", page.Data[0].Message)

	w = api.do(t, http.MethodDelete, "/api/v1/admin/contact-submissions/"+stored.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodDelete, "/api/v1/admin/contact-submissions/"+stored.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactHandler_Validation(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/contact", map[string]string{"name": "Lee", "email": "not-an-email", "message": "hi"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decode[domain.APIError](t, w)
	assert.Contains(t, apiErr.Errors, "email")

	w = api.do(t, http.MethodPost, "/api/v1/contact", map[string]string{"name": "Lee", "email": "lee@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/contact", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
