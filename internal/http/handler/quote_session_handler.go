package handler

import (
	"errors"
	"net/http"

	"github.com/cleanclear-sd/lead-api/internal/quote"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"go.uber.org/zap"
)

// QuoteSessionHandler exposes server-hosted quote wizards to clients that
// keep no form state themselves
type QuoteSessionHandler struct {
	wizards *service.WizardService
	logger  *zap.Logger
}

// NewQuoteSessionHandler creates a new QuoteSessionHandler
func NewQuoteSessionHandler(wizards *service.WizardService, logger *zap.Logger) *QuoteSessionHandler {
	return &QuoteSessionHandler{wizards: wizards, logger: logger}
}

// Create godoc
// @Summary Start a quote session
// @Description Creates a wizard session on the first step with an empty draft
// @Tags Quote Sessions
// @Produce json
// @Success 201 {object} service.WizardSessionView
// @Router /quote-sessions [post]
func (h *QuoteSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	view := h.wizards.Create()
	w.Header().Set("Location", "/api/v1/quote-sessions/"+view.ID.String())
	respondJSON(w, http.StatusCreated, view)
}

// Get godoc
// @Summary Get a quote session
// @Tags Quote Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.WizardSessionView
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Session not found or expired"
// @Router /quote-sessions/{id} [get]
func (h *QuoteSessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	view, err := h.wizards.Get(id)
	h.respond(w, r, view, err)
}

// UpdateDraft godoc
// @Summary Update the session draft
// @Description Merges the given fields into the draft and clears the validation error. Omitted fields are left unchanged.
// @Tags Quote Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body quote.Patch true "Fields to change"
// @Success 200 {object} service.WizardSessionView
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /quote-sessions/{id}/draft [patch]
func (h *QuoteSessionHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var patch quote.Patch
	if err := decodeJSON(w, r, maxJSONBody, &patch); err != nil {
		respondBadBody(w, err)
		return
	}

	view, err := h.wizards.Update(id, patch)
	h.respond(w, r, view, err)
}

// Next godoc
// @Summary Advance to the next step
// @Description Validates the current step. A failure is reported in validationError and the step does not change.
// @Tags Quote Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.WizardSessionView
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Session is submitting or submitted"
// @Router /quote-sessions/{id}/next [post]
func (h *QuoteSessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	view, err := h.wizards.Next(id)
	h.respond(w, r, view, err)
}

// Back godoc
// @Summary Return to the previous step
// @Tags Quote Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.WizardSessionView
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /quote-sessions/{id}/back [post]
func (h *QuoteSessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	view, err := h.wizards.Back(id)
	h.respond(w, r, view, err)
}

// Submit godoc
// @Summary Submit the session draft
// @Description Submits from the last step. A failed submission leaves status "error"; calling submit again retries.
// @Tags Quote Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.WizardSessionView
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Not on the last step, already submitting or already submitted"
// @Router /quote-sessions/{id}/submit [post]
func (h *QuoteSessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	view, err := h.wizards.Submit(r.Context(), id)
	h.respond(w, r, view, err)
}

// Restart godoc
// @Summary Start over after a successful submission
// @Tags Quote Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.WizardSessionView
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Session has not been submitted"
// @Router /quote-sessions/{id}/restart [post]
func (h *QuoteSessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	view, err := h.wizards.Restart(id)
	h.respond(w, r, view, err)
}

// Delete godoc
// @Summary Discard a quote session
// @Tags Quote Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /quote-sessions/{id} [delete]
func (h *QuoteSessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	h.wizards.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuoteSessionHandler) respond(w http.ResponseWriter, r *http.Request, view service.WizardSessionView, err error) {
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *QuoteSessionHandler) handleSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrWizardSessionNotFound):
		respondWithError(w, http.StatusNotFound, "Quote session not found or expired")
	case errors.Is(err, quote.ErrSubmissionInProgress):
		respondWithError(w, http.StatusConflict, "Submission already in progress")
	case errors.Is(err, quote.ErrAlreadySubmitted):
		respondWithError(w, http.StatusConflict, "Quote request already submitted")
	case errors.Is(err, quote.ErrNotLastStep):
		respondWithError(w, http.StatusConflict, "Submit is only available on the last step")
	case errors.Is(err, quote.ErrNotSubmitted):
		respondWithError(w, http.StatusConflict, "Restart is only available after a successful submission")
	default:
		requestLogger(r, h.logger).Error("quote session operation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
