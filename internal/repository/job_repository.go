package repository

import (
	"context"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobFilters contains the filter options for listing jobs. From and To bound
// the scheduled date inclusively.
type JobFilters struct {
	CustomerID *uuid.UUID
	Status     *domain.JobStatus
	From       *time.Time
	To         *time.Time
	// ExcludeStatus drops jobs in this status, as for the upcoming list
	ExcludeStatus *domain.JobStatus
	Limit         int
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *JobRepository) WithTx(tx *gorm.DB) *JobRepository {
	return &JobRepository{db: tx}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error
}

// GetByID returns a job with its customer preloaded
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	err := r.db.WithContext(ctx).Preload("Customer").Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error
}

// Delete removes a job. It returns gorm.ErrRecordNotFound when no job has the
// given id.
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Job{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByCustomer removes every job of a customer
func (r *JobRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Job{}, "customer_id = ?", customerID).Error
}

// List returns jobs in schedule order, earliest first
func (r *JobRepository) List(ctx context.Context, filters *JobFilters) ([]domain.Job, error) {
	var jobs []domain.Job
	query := r.db.WithContext(ctx).Model(&domain.Job{}).Preload("Customer")
	query = r.applyFilters(query, filters)
	if filters != nil && filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	err := query.Order("scheduled_date ASC").Order("scheduled_time ASC").Find(&jobs).Error
	return jobs, err
}

// ListByCustomer returns a customer's jobs, most recent date first
func (r *JobRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("scheduled_date DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) applyFilters(query *gorm.DB, filters *JobFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ExcludeStatus != nil {
		query = query.Where("status <> ?", *filters.ExcludeStatus)
	}
	if filters.From != nil {
		query = query.Where("scheduled_date >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("scheduled_date <= ?", *filters.To)
	}
	return query
}
