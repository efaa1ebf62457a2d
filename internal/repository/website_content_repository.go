package repository

import (
	"context"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebsiteContentRepository struct {
	db *gorm.DB
}

func NewWebsiteContentRepository(db *gorm.DB) *WebsiteContentRepository {
	return &WebsiteContentRepository{db: db}
}

// GetBySectionKey returns the stored content of a section, or gorm.ErrRecordNotFound
func (r *WebsiteContentRepository) GetBySectionKey(ctx context.Context, sectionKey string) (*domain.WebsiteContent, error) {
	var content domain.WebsiteContent
	err := r.db.WithContext(ctx).Where("section_key = ?", sectionKey).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// Upsert inserts the section or replaces its content when it already exists
func (r *WebsiteContentRepository) Upsert(ctx context.Context, content *domain.WebsiteContent) error {
	content.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_by", "updated_at"}),
	}).Create(content).Error
}
