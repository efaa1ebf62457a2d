package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobHandler handles HTTP requests for the job schedule
type JobHandler struct {
	jobService *service.JobService
	logger     *zap.Logger
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobService *service.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

// List godoc
// @Summary List jobs
// @Description Returns jobs in schedule order. month (YYYY-MM) selects a calendar month and takes precedence over from/to.
// @Tags Jobs
// @Produce json
// @Param month query string false "Calendar month, YYYY-MM"
// @Param from query string false "First scheduled date, YYYY-MM-DD"
// @Param to query string false "Last scheduled date, YYYY-MM-DD"
// @Param status query string false "Filter by status" Enums(scheduled, in_progress, completed, cancelled)
// @Param customerId query string false "Filter by customer"
// @Success 200 {array} domain.JobDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/jobs [get]
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if m := q.Get("month"); m != "" {
		month, err := time.Parse("2006-01", m)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid month. Expected YYYY-MM")
			return
		}
		jobs, err := h.jobService.Month(r.Context(), month.Year(), month.Month())
		if err != nil {
			h.handleJobError(w, r, err, "failed to list jobs")
			return
		}
		respondJSON(w, http.StatusOK, jobs)
		return
	}

	params := service.JobListParams{From: q.Get("from"), To: q.Get("to")}
	if s := q.Get("status"); s != "" && s != "all" {
		status := domain.JobStatus(s)
		params.Status = &status
	}
	if c := q.Get("customerId"); c != "" {
		customerID, err := uuid.Parse(c)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid customerId")
			return
		}
		params.CustomerID = &customerID
	}

	jobs, err := h.jobService.List(r.Context(), params)
	if err != nil {
		h.handleJobError(w, r, err, "failed to list jobs")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

// Upcoming godoc
// @Summary Upcoming jobs
// @Description Returns jobs scheduled today or later that are not cancelled
// @Tags Jobs
// @Produce json
// @Param limit query int false "Maximum jobs" default(10)
// @Success 200 {array} domain.JobDTO
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/jobs/upcoming [get]
func (h *JobHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	jobs, err := h.jobService.Upcoming(r.Context(), limit)
	if err != nil {
		h.handleJobError(w, r, err, "failed to list upcoming jobs")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

// GetByID godoc
// @Summary Get job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Job not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/jobs/{id} [get]
func (h *JobHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	job, err := h.jobService.GetByID(r.Context(), id)
	if err != nil {
		h.handleJobError(w, r, err, "failed to get job")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Create godoc
// @Summary Schedule job
// @Description Schedules a job for a customer. An empty title defaults to the first service.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body domain.JobRequest true "Job"
// @Success 201 {object} domain.JobDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Customer not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/jobs [post]
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.JobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.Create(r.Context(), &req)
	if err != nil {
		h.handleJobError(w, r, err, "failed to create job")
		return
	}
	respondJSON(w, http.StatusCreated, job)
}

// Update godoc
// @Summary Update job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.JobRequest true "Job"
// @Success 200 {object} domain.JobDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Job or customer not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/jobs/{id} [put]
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.JobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleJobError(w, r, err, "failed to update job")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// UpdateStatus godoc
// @Summary Change job status
// @Description Completing a job records its completion time
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.UpdateJobStatusRequest true "New status"
// @Success 200 {object} domain.JobDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Job not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/jobs/{id}/status [patch]
func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateJobStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleJobError(w, r, err, "failed to update job status")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Delete godoc
// @Summary Delete job
// @Tags Jobs
// @Param id path string true "Job ID"
// @Success 204
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Job not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/jobs/{id} [delete]
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.jobService.Delete(r.Context(), id); err != nil {
		h.handleJobError(w, r, err, "failed to delete job")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JobHandler) handleJobError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		respondWithError(w, http.StatusNotFound, "Job not found")
	case errors.Is(err, service.ErrCustomerNotFound):
		respondWithError(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, service.ErrInvalidJobStatus):
		respondWithError(w, http.StatusBadRequest, "Invalid job status. Valid values: scheduled, in_progress, completed, cancelled")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		requestLogger(r, h.logger).Error(msg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
