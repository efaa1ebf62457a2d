package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/cleanclear-sd/lead-api/internal/storage"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultImageContentType = "image/jpeg"
	siteImagePrefix         = "site-images"
)

// SiteImageService stores the images shown in fixed slots of the site
type SiteImageService struct {
	repo     *repository.SiteImageRepository
	storage  storage.Storage
	maxBytes int64
	logger   *zap.Logger
}

// NewSiteImageService creates a new SiteImageService. maxBytes <= 0 disables
// the size limit.
func NewSiteImageService(repo *repository.SiteImageRepository, store storage.Storage, maxBytes int64, logger *zap.Logger) *SiteImageService {
	return &SiteImageService{
		repo:     repo,
		storage:  store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// NormalizeKey turns a slot name into its storage key
func NormalizeKey(key string) string {
	return slug.Make(key)
}

// Upload stores the image for a slot, replacing any previous one
func (s *SiteImageService) Upload(ctx context.Context, req *domain.UploadSiteImageRequest) (*domain.SiteImageUploadResponse, error) {
	key := NormalizeKey(req.Key)
	if key == "" || req.ImageData == "" {
		return nil, ErrInvalidInput
	}

	data, embeddedType, err := decodeImageData(req.ImageData)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrImageTooLarge
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = embeddedType
	}
	if contentType == "" {
		contentType = defaultImageContentType
	}

	previous, err := s.repo.GetByKey(ctx, key)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up image: %w", err)
	}

	blobName, size, err := s.storage.Upload(ctx, siteImagePrefix+"/"+key, key+extensionFor(contentType), contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	updatedBy := auth.SystemUserID
	if user, ok := auth.FromContext(ctx); ok {
		updatedBy = user.UserID
	}

	image := &domain.SiteImage{
		Key:         key,
		BlobName:    blobName,
		ContentType: contentType,
		Size:        size,
		IsPublic:    true,
		UpdatedBy:   updatedBy,
	}
	if err := s.repo.Upsert(ctx, image); err != nil {
		_ = s.storage.Delete(ctx, blobName)
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	if previous != nil && previous.BlobName != blobName {
		if err := s.storage.Delete(ctx, previous.BlobName); err != nil {
			s.logger.Warn("failed to delete replaced site image",
				zap.String("key", key),
				zap.String("blob", previous.BlobName),
				zap.Error(err))
		}
	}

	s.logger.Info("site image stored",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int64("size", size))

	return &domain.SiteImageUploadResponse{Success: true, Key: key}, nil
}

// Get returns a public image with its bytes inlined as a data URL
func (s *SiteImageService) Get(ctx context.Context, key string) (*domain.SiteImageDTO, error) {
	key = NormalizeKey(key)
	if key == "" {
		return nil, ErrInvalidInput
	}

	image, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteImageNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	if !image.IsPublic {
		return nil, ErrSiteImageNotFound
	}

	rc, err := s.storage.Download(ctx, image.BlobName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrSiteImageNotFound
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	return &domain.SiteImageDTO{
		Key:         image.Key,
		ImageData:   "data:" + image.ContentType + ";base64," + base64.StdEncoding.EncodeToString(data),
		ContentType: image.ContentType,
	}, nil
}

// ListKeys returns the keys of all public images
func (s *SiteImageService) ListKeys(ctx context.Context) ([]string, error) {
	images, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	keys := make([]string, len(images))
	for i, img := range images {
		keys[i] = img.Key
	}
	return keys, nil
}

// decodeImageData accepts raw base64 or a data URL and returns the bytes and
// the media type declared by the data URL, if any
func decodeImageData(raw string) ([]byte, string, error) {
	payload := strings.TrimSpace(raw)
	var mediaType string

	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload[len("data:"):], ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", ErrInvalidImageData
		}
		mediaType = strings.TrimSuffix(header, ";base64")
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, "", ErrInvalidImageData
		}
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidImageData
	}
	return data, mediaType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/svg+xml":
		return ".svg"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
