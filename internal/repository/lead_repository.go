package repository

import (
	"context"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadFilters contains the filter options for listing leads
type LeadFilters struct {
	Status        *domain.LeadStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	Limit         int
}

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *LeadRepository) WithTx(tx *gorm.DB) *LeadRepository {
	return &LeadRepository{db: tx}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns leads newest first
func (r *LeadRepository) List(ctx context.Context, filters *LeadFilters) ([]domain.Lead, error) {
	var leads []domain.Lead
	query := r.db.WithContext(ctx).Model(&domain.Lead{})
	query = r.applyFilters(query, filters)
	if filters != nil && filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	err := query.Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *LeadRepository) applyFilters(query *gorm.DB, filters *LeadFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}
	if filters.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filters.CreatedBefore)
	}
	if filters.UpdatedAfter != nil {
		query = query.Where("updated_at > ?", *filters.UpdatedAfter)
	}
	return query
}

// UpdateStatus writes the status column only. It returns gorm.ErrRecordNotFound
// when no lead has the given id.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LeadStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            status,
			"updated_at":        time.Now().UTC(),
			"stale_notified_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus returns the number of leads in each status
func (r *LeadRepository) CountByStatus(ctx context.Context) (map[domain.LeadStatus]int64, error) {
	type result struct {
		Status domain.LeadStatus
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.LeadStatus]int64, len(domain.LeadStatuses))
	for _, s := range domain.LeadStatuses {
		counts[s] = 0
	}
	for _, r := range results {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// ListStale returns leads that have stayed in status since before cutoff and
// have not been reminded about yet
func (r *LeadRepository) ListStale(ctx context.Context, status domain.LeadStatus, cutoff time.Time) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ? AND stale_notified_at IS NULL", status, cutoff).
		Order("created_at ASC").
		Find(&leads).Error
	return leads, err
}

// MarkStaleNotified records that a stale reminder was sent. updated_at is left
// alone so the lead keeps its place in the pipeline.
func (r *LeadRepository) MarkStaleNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("id = ?", id).
		UpdateColumn("stale_notified_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
