package handler

import (
	"net/http"

	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/events"
)

// RealtimeHandler upgrades admin clients to the lead change feed
type RealtimeHandler struct {
	hub *events.Hub
}

func NewRealtimeHandler(hub *events.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Serve godoc
// @Summary Lead change feed
// @Description Upgrades to a WebSocket that receives a frame for every lead created or changed. Browsers pass the token as access_token.
// @Tags Realtime
// @Param access_token query string false "Bearer token for clients that cannot set headers"
// @Success 101
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/realtime [get]
func (h *RealtimeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if user, ok := auth.FromContext(r.Context()); ok {
		userID = user.UserID
	}
	h.hub.ServeWS(w, r, userID)
}
