package service_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/cleanclear-sd/lead-api/internal/storage"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSiteImageService(t *testing.T, maxBytes int64) (*service.SiteImageService, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store, err := storage.NewLocalStorage(fs, "/uploads")
	require.NoError(t, err)
	db := testutil.SetupTestDB(t)
	return service.NewSiteImageService(repository.NewSiteImageRepository(db), store, maxBytes, zap.NewNop()), fs
}

func TestSiteImageService_UploadAndGet(t *testing.T) {
	svc, _ := newSiteImageService(t, 0)
	ctx := context.Background()
	raw := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

	res, err := svc.Upload(ctx, &domain.UploadSiteImageRequest{Key: "Hero Background", ImageData: raw})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "hero-background", res.Key)

	img, err := svc.Get(ctx, "hero-background")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType, "content type defaults to jpeg")
	assert.Equal(t, "data:image/jpeg;base64,"+raw, img.ImageData)

	keys, err := svc.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero-background"}, keys)
}

func TestSiteImageService_DataURLAndReplace(t *testing.T) {
	svc, fs := newSiteImageService(t, 0)
	ctx := context.Background()

	first := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("first"))
	_, err := svc.Upload(ctx, &domain.UploadSiteImageRequest{Key: "about", ImageData: first})
	require.NoError(t, err)

	second := base64.StdEncoding.EncodeToString([]byte("second"))
	_, err = svc.Upload(ctx, &domain.UploadSiteImageRequest{Key: "about", ImageData: second, ContentType: "image/webp"})
	require.NoError(t, err)

	img, err := svc.Get(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", img.ContentType)
	assert.Equal(t, "data:image/webp;base64,"+second, img.ImageData)

	files, err := afero.ReadDir(fs, "/uploads/site-images/about")
	require.NoError(t, err)
	assert.Len(t, files, 1, "replaced blob is removed")
}

func TestSiteImageService_Errors(t *testing.T) {
	svc, _ := newSiteImageService(t, 4)
	ctx := context.Background()

	_, err := svc.Upload(ctx, &domain.UploadSiteImageRequest{Key: "", ImageData: "aGk="})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Upload(ctx, &domain.UploadSiteImageRequest{Key: "hero", ImageData: ""})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Upload(ctx, &domain.UploadSiteImageRequest{Key: "hero", ImageData: "!!not base64!!"})
	assert.ErrorIs(t, err, service.ErrInvalidImageData)

	_, err = svc.Upload(ctx, &domain.UploadSiteImageRequest{Key: "hero", ImageData: base64.StdEncoding.EncodeToString([]byte("too large"))})
	assert.ErrorIs(t, err, service.ErrImageTooLarge)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrSiteImageNotFound)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
