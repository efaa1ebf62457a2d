package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/content"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/mapper"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService reads and edits the marketing site copy
type ContentService struct {
	repo   *repository.WebsiteContentRepository
	schema *content.Schema
	logger *zap.Logger
}

// NewContentService creates a new ContentService
func NewContentService(repo *repository.WebsiteContentRepository, schema *content.Schema, logger *zap.Logger) *ContentService {
	return &ContentService{
		repo:   repo,
		schema: schema,
		logger: logger,
	}
}

// Sections returns the editable section schema in display order
func (s *ContentService) Sections() []domain.ContentSectionSchemaDTO {
	out := make([]domain.ContentSectionSchemaDTO, len(s.schema.Sections))
	for i, sec := range s.schema.Sections {
		fields := make([]domain.ContentFieldDTO, len(sec.Fields))
		for j, f := range sec.Fields {
			fields[j] = domain.ContentFieldDTO{
				Key:         f.Key,
				Label:       f.Label,
				Type:        string(f.Kind),
				Placeholder: f.Placeholder,
				HelpText:    f.HelpText,
			}
		}
		out[i] = domain.ContentSectionSchemaDTO{
			Key:    sec.Key,
			Label:  sec.Label,
			Title:  sec.Title,
			Fields: fields,
		}
	}
	return out
}

// Get returns a section's stored content merged over empty defaults. A
// section that was never saved returns only the defaults.
func (s *ContentService) Get(ctx context.Context, sectionKey string) (*domain.ContentSectionDTO, error) {
	sec, ok := s.schema.Section(sectionKey)
	if !ok {
		return nil, ErrContentSectionNotFound
	}

	stored, err := s.repo.GetBySectionKey(ctx, sectionKey)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get content: %w", err)
		}
	}

	var values map[string]any
	if stored != nil {
		values = stored.Content
	}
	dto := mapper.ToContentSectionDTO(sectionKey, sec.Merge(values), stored)
	return &dto, nil
}

// Update replaces a section's content. Invalid values are reported as
// *content.ValidationError wrapped in ErrInvalidContent.
func (s *ContentService) Update(ctx context.Context, sectionKey string, req *domain.UpdateContentRequest) (*domain.ContentSectionDTO, error) {
	sec, ok := s.schema.Section(sectionKey)
	if !ok {
		return nil, ErrContentSectionNotFound
	}
	if err := sec.Validate(req.Content); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}

	updatedBy := auth.SystemUserID
	if user, ok := auth.FromContext(ctx); ok {
		updatedBy = user.UserID
	}

	record := &domain.WebsiteContent{
		SectionKey: sectionKey,
		Content:    req.Content,
		UpdatedBy:  updatedBy,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save content: %w", err)
	}

	s.logger.Info("website content updated",
		zap.String("section", sectionKey),
		zap.String("updated_by", updatedBy))

	return s.Get(ctx, sectionKey)
}
