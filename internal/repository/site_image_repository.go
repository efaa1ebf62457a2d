package repository

import (
	"context"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SiteImageRepository struct {
	db *gorm.DB
}

func NewSiteImageRepository(db *gorm.DB) *SiteImageRepository {
	return &SiteImageRepository{db: db}
}

// GetByKey returns the image stored under key, or gorm.ErrRecordNotFound
func (r *SiteImageRepository) GetByKey(ctx context.Context, key string) (*domain.SiteImage, error) {
	var image domain.SiteImage
	err := r.db.WithContext(ctx).Where("image_key = ?", key).First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// Upsert inserts the image or replaces the one stored under the same key
func (r *SiteImageRepository) Upsert(ctx context.Context, image *domain.SiteImage) error {
	image.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "image_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob_name", "content_type", "size", "is_public", "updated_by", "updated_at"}),
	}).Create(image).Error
}

// ListPublic returns all public images ordered by key
func (r *SiteImageRepository) ListPublic(ctx context.Context) ([]domain.SiteImage, error) {
	var images []domain.SiteImage
	err := r.db.WithContext(ctx).Where("is_public = ?", true).Order("image_key ASC").Find(&images).Error
	return images, err
}
