package repository

import (
	"context"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactSubmissionRepository struct {
	db *gorm.DB
}

func NewContactSubmissionRepository(db *gorm.DB) *ContactSubmissionRepository {
	return &ContactSubmissionRepository{db: db}
}

func (r *ContactSubmissionRepository) Create(ctx context.Context, submission *domain.ContactSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// Delete removes a submission. It returns gorm.ErrRecordNotFound when no
// submission has the given id.
func (r *ContactSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.ContactSubmission{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a page of submissions, newest first
func (r *ContactSubmissionRepository) List(ctx context.Context, page, pageSize int) ([]domain.ContactSubmission, int64, error) {
	var submissions []domain.ContactSubmission
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ContactSubmission{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&submissions).Error
	return submissions, total, err
}
