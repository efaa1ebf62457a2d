package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/catalog"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/mapper"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultUpcomingJobs = 10

// JobListParams filters the job schedule. From and To are YYYY-MM-DD dates
// and bound the scheduled date inclusively.
type JobListParams struct {
	From       string
	To         string
	Status     *domain.JobStatus
	CustomerID *uuid.UUID
}

// JobService schedules cleaning jobs for customers
type JobService struct {
	jobRepo      *repository.JobRepository
	customerRepo *repository.CustomerRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo *repository.JobRepository,
	customerRepo *repository.CustomerRepository,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobRepo:      jobRepo,
		customerRepo: customerRepo,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create schedules a job. An empty title falls back to the first service.
func (s *JobService) Create(ctx context.Context, req *domain.JobRequest) (*domain.JobDTO, error) {
	job := &domain.Job{Status: domain.JobStatusScheduled}
	if err := s.applyJobRequest(ctx, job, req); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("job scheduled",
		zap.String("job_id", job.ID.String()),
		zap.String("customer_id", job.CustomerID.String()),
		zap.String("scheduled_date", job.ScheduledDate.Format(domain.JobDateFormat)))

	return s.reload(ctx, job.ID)
}

func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobDTO, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// Update replaces the editable fields of a job
func (s *JobService) Update(ctx context.Context, id uuid.UUID, req *domain.JobRequest) (*domain.JobDTO, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyJobRequest(ctx, job, req); err != nil {
		return nil, err
	}

	job.Customer = nil
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return s.reload(ctx, id)
}

// SetStatus moves a job through its workflow. Completing a job stamps
// CompletedAt; leaving completed clears it.
func (s *JobService) SetStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) (*domain.JobDTO, error) {
	if !status.IsValid() {
		return nil, ErrInvalidJobStatus
	}
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status == status {
		dto := mapper.ToJobDTO(job)
		return &dto, nil
	}

	from := job.Status
	job.SetStatus(status, s.now())
	customer := job.Customer
	job.Customer = nil
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}
	job.Customer = customer

	s.logger.Info("job status changed",
		zap.String("job_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(status)))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.jobRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobNotFound
		}
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// List returns jobs in schedule order
func (s *JobService) List(ctx context.Context, params JobListParams) ([]domain.JobDTO, error) {
	filters := &repository.JobFilters{
		Status:     params.Status,
		CustomerID: params.CustomerID,
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, ErrInvalidJobStatus
	}
	if params.From != "" {
		from, err := parseJobDate(params.From)
		if err != nil {
			return nil, err
		}
		filters.From = &from
	}
	if params.To != "" {
		to, err := parseJobDate(params.To)
		if err != nil {
			return nil, err
		}
		filters.To = &to
	}

	jobs, err := s.jobRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return mapper.ToJobDTOs(jobs), nil
}

// Month returns every job scheduled in the given calendar month
func (s *JobService) Month(ctx context.Context, year int, month time.Month) ([]domain.JobDTO, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	jobs, err := s.jobRepo.List(ctx, &repository.JobFilters{From: &first, To: &last})
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return mapper.ToJobDTOs(jobs), nil
}

// Upcoming returns jobs scheduled today or later that are not cancelled
func (s *JobService) Upcoming(ctx context.Context, limit int) ([]domain.JobDTO, error) {
	if limit < 1 {
		limit = defaultUpcomingJobs
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cancelled := domain.JobStatusCancelled

	jobs, err := s.jobRepo.List(ctx, &repository.JobFilters{
		From:          &today,
		ExcludeStatus: &cancelled,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming jobs: %w", err)
	}
	return mapper.ToJobDTOs(jobs), nil
}

func (s *JobService) getJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (s *JobService) reload(ctx context.Context, id uuid.UUID) (*domain.JobDTO, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// applyJobRequest copies req onto job after checking the customer exists.
// Service ids are stored as their display labels.
func (s *JobService) applyJobRequest(ctx context.Context, job *domain.Job, req *domain.JobRequest) error {
	if req.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: customer is required", ErrInvalidInput)
	}
	date, err := parseJobDate(req.ScheduledDate)
	if err != nil {
		return err
	}
	status := req.Status
	if status == "" {
		status = job.Status
	}
	if !status.IsValid() {
		return ErrInvalidJobStatus
	}

	services := catalog.ServiceLabels(req.Services)
	title := strings.TrimSpace(req.Title)
	if title == "" && len(services) > 0 {
		title = services[0]
	}
	if title == "" {
		return fmt.Errorf("%w: title or a service is required", ErrInvalidInput)
	}

	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to get customer: %w", err)
	}

	duration := req.EstimatedDuration
	if duration <= 0 {
		duration = domain.DefaultJobDuration
	}

	job.CustomerID = req.CustomerID
	job.Title = title
	job.Services = services
	job.ScheduledDate = date
	job.ScheduledTime = strings.TrimSpace(req.ScheduledTime)
	job.EstimatedDuration = duration
	job.Price = req.Price
	job.Notes = req.Notes
	job.CrewNotes = req.CrewNotes
	job.SetStatus(status, s.now())
	return nil
}

func parseJobDate(value string) (time.Time, error) {
	date, err := time.Parse(domain.JobDateFormat, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return date, nil
}
