package handler_test

import (
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00}

func TestSiteImageHandler_UploadAndGet(t *testing.T) {
	api := newTestAPI(t)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)

	w := api.do(t, http.MethodPost, "/api/v1/admin/site-images", domain.UploadSiteImageRequest{
		Key:       "Hero Background",
		ImageData: dataURL,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[domain.SiteImageUploadResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "hero-background", resp.Key)

	w = api.do(t, http.MethodGet, "/api/v1/site-images?key=hero-background", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))
	img := decode[domain.SiteImageDTO](t, w)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, dataURL, img.ImageData)

	w = api.do(t, http.MethodGet, "/api/v1/admin/site-images", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"hero-background"}, decode[[]string](t, w))
}

func TestSiteImageHandler_UploadErrors(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/admin/site-images", domain.UploadSiteImageRequest{Key: "hero"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "key and image_data are required", decode[domain.APIError](t, w).Detail)

	w = api.do(t, http.MethodPost, "/api/v1/admin/site-images", domain.UploadSiteImageRequest{
		Key:       "hero",
		ImageData: "data:image/png,not-base64",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	big := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 1<<20+10)))
	w = api.do(t, http.MethodPost, "/api/v1/admin/site-images", domain.UploadSiteImageRequest{
		Key:       "hero",
		ImageData: big,
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSiteImageHandler_GetErrors(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/site-images", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "key parameter is required", decode[domain.APIError](t, w).Detail)

	w = api.do(t, http.MethodGet, "/api/v1/site-images?key=missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Image not found", decode[domain.APIError](t, w).Detail)
}
