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

// CustomerHandler handles HTTP requests for the customer book
type CustomerHandler struct {
	customerService *service.CustomerService
	logger          *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// List godoc
// @Summary List customers
// @Description Returns a page of customers, newest first, each with its job count. Search matches name, email, city and phone.
// @Tags Customers
// @Produce json
// @Param search query string false "Search text"
// @Param source query string false "Filter by source" Enums(website, referral, google, yelp, other)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.CustomerDTO}
// @Failure 400 {object} domain.APIError "Invalid source"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	params := service.CustomerListParams{
		Search:   q.Get("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if s := q.Get("source"); s != "" && s != "all" {
		source := domain.CustomerSource(s)
		if !source.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid source. Valid values: website, referral, google, yelp, other")
			return
		}
		params.Source = &source
	}

	result, err := h.customerService.List(r.Context(), params)
	if err != nil {
		h.handleCustomerError(w, r, err, "failed to list customers")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get customer
// @Description Returns a customer with its jobs and the revenue of completed jobs
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} domain.CustomerDetailDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Customer not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/customers/{id} [get]
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		h.handleCustomerError(w, r, err, "failed to get customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Create godoc
// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body domain.CustomerRequest true "Customer"
// @Success 201 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCustomer(w, r)
	if !ok {
		return
	}

	customer, err := h.customerService.Create(r.Context(), req)
	if err != nil {
		h.handleCustomerError(w, r, err, "failed to create customer")
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

// Update godoc
// @Summary Update customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body domain.CustomerRequest true "Customer"
// @Success 200 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Customer not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/customers/{id} [put]
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := h.decodeCustomer(w, r)
	if !ok {
		return
	}

	customer, err := h.customerService.Update(r.Context(), id, req)
	if err != nil {
		h.handleCustomerError(w, r, err, "failed to update customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Delete godoc
// @Summary Delete customer
// @Description Deletes a customer and all of its jobs
// @Tags Customers
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Customer not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/customers/{id} [delete]
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(r.Context(), id); err != nil {
		h.handleCustomerError(w, r, err, "failed to delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConvertLead godoc
// @Summary Convert lead to customer
// @Description Creates a customer from a lead's contact and property details
// @Tags Customers
// @Produce json
// @Param id path string true "Lead ID"
// @Success 201 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Lead not found"
// @Failure 409 {object} domain.APIError "Lead already converted"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/leads/{id}/convert [post]
func (h *CustomerHandler) ConvertLead(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.ConvertLead(r.Context(), id)
	if err != nil {
		h.handleCustomerError(w, r, err, "failed to convert lead")
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) decodeCustomer(w http.ResponseWriter, r *http.Request) (*domain.CustomerRequest, bool) {
	var req domain.CustomerRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondBadBody(w, err)
		return nil, false
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return nil, false
	}
	return &req, true
}

func (h *CustomerHandler) handleCustomerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		respondWithError(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, service.ErrLeadNotFound):
		respondWithError(w, http.StatusNotFound, "Lead not found")
	case errors.Is(err, service.ErrLeadAlreadyConverted):
		respondWithError(w, http.StatusConflict, "Lead has already been converted to a customer")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		requestLogger(r, h.logger).Error(msg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
