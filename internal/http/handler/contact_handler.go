package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"go.uber.org/zap"
)

// ContactHandler handles the public contact form and its admin inbox
type ContactHandler struct {
	contactService *service.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// Submit godoc
// @Summary Send a contact message
// @Description Stores a message from the public contact form
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body domain.ContactRequest true "Message"
// @Success 201 {object} domain.ContactSubmissionDTO
// @Failure 400 {object} domain.APIError
// @Failure 429 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /contact [post]
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondBadBody(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	submission, err := h.contactService.Submit(r.Context(), &req)
	if err != nil {
		h.handleContactError(w, r, err, "failed to store contact submission")
		return
	}
	respondJSON(w, http.StatusCreated, submission)
}

// List godoc
// @Summary List contact messages
// @Description Returns a page of contact form messages, newest first
// @Tags Contact
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ContactSubmissionDTO}
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/contact-submissions [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.contactService.List(r.Context(), page, pageSize)
	if err != nil {
		h.handleContactError(w, r, err, "failed to list contact submissions")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete contact message
// @Tags Contact
// @Param id path string true "Submission ID"
// @Success 204
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Submission not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/contact-submissions/{id} [delete]
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		h.handleContactError(w, r, err, "failed to delete contact submission")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) handleContactError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrContactSubmissionNotFound):
		respondWithError(w, http.StatusNotFound, "Contact submission not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		requestLogger(r, h.logger).Error(msg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
