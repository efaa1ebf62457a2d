package handler

import (
	"errors"
	"net/http"

	"github.com/cleanclear-sd/lead-api/internal/content"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContentHandler serves editable website copy
type ContentHandler struct {
	contentService *service.ContentService
	logger         *zap.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService *service.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		logger:         logger,
	}
}

// Sections godoc
// @Summary List editable sections
// @Description Returns the schema of every editable website section
// @Tags Content
// @Produce json
// @Success 200 {array} domain.ContentSectionSchemaDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/content/sections [get]
func (h *ContentHandler) Sections(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.contentService.Sections())
}

// Get godoc
// @Summary Get section content
// @Description Returns the stored content of a section with every schema field present
// @Tags Content
// @Produce json
// @Param section path string true "Section key" example(hero)
// @Success 200 {object} domain.ContentSectionDTO
// @Failure 404 {object} domain.APIError "Unknown section"
// @Failure 500 {object} domain.APIError
// @Router /content/{section} [get]
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	dto, err := h.contentService.Get(r.Context(), section)
	if err != nil {
		if errors.Is(err, service.ErrContentSectionNotFound) {
			respondWithError(w, http.StatusNotFound, "Content section not found")
			return
		}
		requestLogger(r, h.logger).Error("failed to load content", zap.String("section", section), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load content")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Update godoc
// @Summary Save section content
// @Description Replaces the content of a section. Unknown fields are rejected and url fields must be absolute http(s) URLs.
// @Tags Content
// @Accept json
// @Produce json
// @Param section path string true "Section key"
// @Param request body domain.UpdateContentRequest true "Section content"
// @Success 200 {object} domain.ContentSectionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Unknown section"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/content/{section} [put]
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	var req domain.UpdateContentRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondBadBody(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.contentService.Update(r.Context(), section, &req)
	if err != nil {
		var verr *content.ValidationError
		switch {
		case errors.Is(err, service.ErrContentSectionNotFound):
			respondWithError(w, http.StatusNotFound, "Content section not found")
		case errors.As(err, &verr):
			respondContentError(w, verr)
		default:
			requestLogger(r, h.logger).Error("failed to save content", zap.String("section", section), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to save changes")
		}
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

func respondContentError(w http.ResponseWriter, verr *content.ValidationError) {
	errs := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		errs[f.Field] = f.Message
	}
	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "Invalid content for section " + verr.Section,
		Errors: errs,
	})
}
