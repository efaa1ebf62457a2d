package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Me(t *testing.T) {
	tests := []struct {
		name      string
		adminRole string
		user      *auth.UserContext
		wantAdmin bool
	}{
		{
			name:      "bearer with admin role",
			adminRole: "Lead.Admin",
			user:      &auth.UserContext{UserID: "u1", Email: "ops@example.com", Roles: []string{"Lead.Admin"}, AuthType: "bearer"},
			wantAdmin: true,
		},
		{
			name:      "bearer without admin role",
			adminRole: "Lead.Admin",
			user:      &auth.UserContext{UserID: "u2", AuthType: "bearer"},
			wantAdmin: false,
		},
		{
			name:      "api key",
			adminRole: "Lead.Admin",
			user:      &auth.UserContext{UserID: "api-key", AuthType: "api_key"},
			wantAdmin: true,
		},
		{
			name:      "no role configured",
			user:      &auth.UserContext{UserID: "u3", AuthType: "bearer"},
			wantAdmin: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewAuthHandler(tt.adminRole)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			req = req.WithContext(auth.WithUserContext(req.Context(), tt.user))
			w := httptest.NewRecorder()

			h.Me(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			body := decode[domain.AuthUserDTO](t, w)
			assert.Equal(t, tt.user.UserID, body.ID)
			assert.Equal(t, tt.user.DisplayName(), body.Name)
			assert.NotNil(t, body.Roles)
			assert.Equal(t, tt.wantAdmin, body.IsAdmin)
		})
	}
}

func TestAuthHandler_MeWithoutUser(t *testing.T) {
	h := handler.NewAuthHandler("Lead.Admin")
	w := httptest.NewRecorder()

	h.Me(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
