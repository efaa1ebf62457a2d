package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"go.uber.org/zap"
)

// LeadHandler handles HTTP requests for the admin lead pipeline
type LeadHandler struct {
	leadService *service.LeadService
	logger      *zap.Logger
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		logger:      logger,
	}
}

// List godoc
// @Summary List leads
// @Description Returns a page of leads, newest first, with per-status counts. Search matches name, email, phone and requested services.
// @Tags Leads
// @Produce json
// @Param status query string false "Filter by status" Enums(new, contacted, quoted, won, lost)
// @Param search query string false "Search text"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} domain.LeadListResponse
// @Failure 400 {object} domain.APIError "Invalid status"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/leads [get]
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	params := service.LeadListParams{
		Search:   q.Get("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if s := q.Get("status"); s != "" && s != "all" {
		status := domain.LeadStatus(s)
		params.Status = &status
	}

	result, err := h.leadService.List(r.Context(), params)
	if err != nil {
		h.handleLeadError(w, r, err, "failed to list leads")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Board godoc
// @Summary Get the lead board
// @Description Returns one column per status in pipeline order
// @Tags Leads
// @Produce json
// @Param search query string false "Search text"
// @Success 200 {array} domain.BoardColumn
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/leads/board [get]
func (h *LeadHandler) Board(w http.ResponseWriter, r *http.Request) {
	columns, err := h.leadService.Board(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.handleLeadError(w, r, err, "failed to load lead board")
		return
	}
	respondJSON(w, http.StatusOK, columns)
}

// GetByID godoc
// @Summary Get lead
// @Description Returns a lead with its status history
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} domain.LeadDetailDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Lead not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/leads/{id} [get]
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	lead, err := h.leadService.GetByID(r.Context(), id)
	if err != nil {
		h.handleLeadError(w, r, err, "failed to get lead")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// UpdateStatus godoc
// @Summary Change lead status
// @Description Moves a lead to another pipeline status and records the change in its history
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.UpdateLeadStatusRequest true "New status"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Lead not found"
// @Failure 409 {object} domain.APIError "Lead already has this status"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateLeadStatusRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondBadBody(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.SetStatus(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		h.handleLeadError(w, r, err, "failed to update lead status")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) handleLeadError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrLeadNotFound):
		respondWithError(w, http.StatusNotFound, "Lead not found")
	case errors.Is(err, service.ErrInvalidLeadStatus):
		respondWithError(w, http.StatusBadRequest, "Invalid lead status. Valid values: new, contacted, quoted, won, lost")
	case errors.Is(err, service.ErrStatusUnchanged):
		respondWithError(w, http.StatusConflict, "Lead already has this status")
	default:
		requestLogger(r, h.logger).Error(msg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
