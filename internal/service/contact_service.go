package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/mapper"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContactService stores messages from the public contact form
type ContactService struct {
	repo   *repository.ContactSubmissionRepository
	logger *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(repo *repository.ContactSubmissionRepository, logger *zap.Logger) *ContactService {
	return &ContactService{repo: repo, logger: logger}
}

// Submit stores a contact form message. Name, email and phone are trimmed;
// the message is stored as written but may not be blank.
func (s *ContactService) Submit(ctx context.Context, req *domain.ContactRequest) (*domain.ContactSubmissionDTO, error) {
	submission := &domain.ContactSubmission{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		ServiceType: strings.TrimSpace(req.ServiceType),
		Message:     req.Message,
	}
	if submission.Name == "" || submission.Email == "" || strings.TrimSpace(submission.Message) == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		s.logger.Error("failed to insert contact submission", zap.Error(err))
		return nil, fmt.Errorf("failed to create contact submission: %w", err)
	}

	s.logger.Info("contact form submitted",
		zap.String("submission_id", submission.ID.String()),
		zap.String("service_type", submission.ServiceType))

	dto := mapper.ToContactSubmissionDTO(submission)
	return &dto, nil
}

// List returns a page of submissions, newest first
func (s *ContactService) List(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	submissions, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}

	dtos := make([]domain.ContactSubmissionDTO, len(submissions))
	for i := range submissions {
		dtos[i] = mapper.ToContactSubmissionDTO(&submissions[i])
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContactSubmissionNotFound
		}
		return fmt.Errorf("failed to delete contact submission: %w", err)
	}
	return nil
}
