package handler

import (
	"errors"
	"net/http"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"go.uber.org/zap"
)

// SiteImageHandler stores and serves images shown on the public site
type SiteImageHandler struct {
	imageService *service.SiteImageService
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewSiteImageHandler creates a handler accepting images of up to maxImageBytes
func NewSiteImageHandler(imageService *service.SiteImageService, maxImageBytes int64, logger *zap.Logger) *SiteImageHandler {
	// base64 inflates by 4/3, plus room for the data URL prefix and JSON
	return &SiteImageHandler{
		imageService: imageService,
		maxBodyBytes: maxImageBytes*4/3 + 64*1024,
		logger:       logger,
	}
}

// Upload godoc
// @Summary Upload a site image
// @Description Stores an image for a site slot, replacing the previous one. image_data is base64 or a data URL; content_type defaults to image/jpeg.
// @Tags Site Images
// @Accept json
// @Produce json
// @Param request body domain.UploadSiteImageRequest true "Image"
// @Success 200 {object} domain.SiteImageUploadResponse
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/site-images [post]
func (h *SiteImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req domain.UploadSiteImageRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondBadBody(w, err)
		return
	}

	resp, err := h.imageService.Upload(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "key and image_data are required")
		case errors.Is(err, service.ErrInvalidImageData):
			respondWithError(w, http.StatusBadRequest, "image_data must be base64 or a data URL")
		case errors.Is(err, service.ErrImageTooLarge):
			respondWithError(w, http.StatusRequestEntityTooLarge, "Image too large")
		default:
			requestLogger(r, h.logger).Error("failed to upload site image", zap.String("key", req.Key), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to upload image")
		}
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Get godoc
// @Summary Get a site image
// @Description Returns the image for a slot with its bytes as a data URL
// @Tags Site Images
// @Produce json
// @Param key query string true "Image key"
// @Success 200 {object} domain.SiteImageDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /site-images [get]
func (h *SiteImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondWithError(w, http.StatusBadRequest, "key parameter is required")
		return
	}

	image, err := h.imageService.Get(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "key parameter is required")
		case errors.Is(err, service.ErrSiteImageNotFound):
			respondWithError(w, http.StatusNotFound, "Image not found")
		default:
			requestLogger(r, h.logger).Error("failed to get site image", zap.String("key", key), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to load image")
		}
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	respondJSON(w, http.StatusOK, image)
}

// ListKeys godoc
// @Summary List site image keys
// @Tags Site Images
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/site-images [get]
func (h *SiteImageHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.imageService.ListKeys(r.Context())
	if err != nil {
		requestLogger(r, h.logger).Error("failed to list site images", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list images")
		return
	}
	respondJSON(w, http.StatusOK, keys)
}
