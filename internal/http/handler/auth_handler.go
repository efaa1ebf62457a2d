package handler

import (
	"net/http"

	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/domain"
)

type AuthHandler struct {
	adminRole string
}

func NewAuthHandler(adminRole string) *AuthHandler {
	return &AuthHandler{adminRole: adminRole}
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the identity and roles carried by the caller's token or API key
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.AuthUserDTO
// @Failure 401 {object} domain.APIError "Unauthorized"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	roles := userCtx.Roles
	if roles == nil {
		roles = []string{}
	}

	respondJSON(w, http.StatusOK, domain.AuthUserDTO{
		ID:       userCtx.UserID,
		Name:     userCtx.DisplayName(),
		Email:    userCtx.Email,
		Roles:    roles,
		AuthType: userCtx.AuthType,
		IsAdmin:  userCtx.AuthType == "api_key" || h.adminRole == "" || userCtx.HasRole(h.adminRole),
	})
}
