package handler

import (
	"errors"
	"net/http"

	"github.com/cleanclear-sd/lead-api/internal/catalog"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/quote"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"go.uber.org/zap"
)

// QuoteHandler serves the public quote form
type QuoteHandler struct {
	leadService *service.LeadService
	logger      *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(leadService *service.LeadService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		leadService: leadService,
		logger:      logger,
	}
}

// Catalog godoc
// @Summary Get the quote form catalog
// @Description Returns services, property options, timeframes and step titles used to render the quote form
// @Tags Quotes
// @Produce json
// @Success 200 {object} catalog.Snapshot
// @Router /catalog [get]
func (h *QuoteHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Catalog())
}

// Submit godoc
// @Summary Submit a quote request
// @Description Validates every wizard step in order and stores the request as a new lead
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.SubmitQuoteRequest true "Quote request"
// @Success 201 {object} domain.LeadDTO
// @Failure 400 {object} domain.WizardStepError "First failing wizard step"
// @Failure 429 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /quotes [post]
func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitQuoteRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondBadBody(w, err)
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.SubmitQuote(r.Context(), &req)
	if err != nil {
		var verr *quote.ValidationError
		if errors.As(err, &verr) {
			respondWizardStepError(w, verr)
			return
		}
		requestLogger(r, h.logger).Error("failed to submit quote", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to submit quote request")
		return
	}

	w.Header().Set("Location", "/api/v1/admin/leads/"+lead.ID.String())
	respondJSON(w, http.StatusCreated, lead)
}
