package handler

import (
	"net/http"

	"github.com/cleanclear-sd/lead-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	leadService *service.LeadService
	logger      *zap.Logger
}

func NewDashboardHandler(leadService *service.LeadService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		leadService: leadService,
		logger:      logger,
	}
}

// GetStats godoc
// @Summary Get dashboard statistics
// @Description Returns lead totals, leads created this week, the most requested services, upcoming jobs and recent leads
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStats
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.leadService.Dashboard(r.Context())
	if err != nil {
		requestLogger(r, h.logger).Error("failed to get dashboard stats", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
