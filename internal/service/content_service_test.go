package service_test

import (
	"context"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/content"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newContentService(t *testing.T) *service.ContentService {
	t.Helper()
	schema, err := content.Default()
	require.NoError(t, err)
	db := testutil.SetupTestDB(t)
	return service.NewContentService(repository.NewWebsiteContentRepository(db), schema, zap.NewNop())
}

func TestContentService_Sections(t *testing.T) {
	svc := newContentService(t)
	sections := svc.Sections()
	require.Len(t, sections, 8)
	assert.Equal(t, "hero", sections[0].Key)
	assert.Equal(t, "Hero Section", sections[0].Title)
	assert.Equal(t, "heading", sections[0].Fields[0].Key)
	assert.Equal(t, "text", sections[0].Fields[0].Type)
}

func TestContentService_GetUnsavedReturnsDefaults(t *testing.T) {
	svc := newContentService(t)

	got, err := svc.Get(context.Background(), "about")
	require.NoError(t, err)
	assert.Equal(t, "about", got.SectionKey)
	assert.Equal(t, "", got.Content["years_experience"])
	assert.Empty(t, got.UpdatedAt)

	_, err = svc.Get(context.Background(), "pricing")
	assert.ErrorIs(t, err, service.ErrContentSectionNotFound)
}

func TestContentService_UpdateAndReplace(t *testing.T) {
	svc := newContentService(t)
	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{UserID: "editor-1"})

	got, err := svc.Update(ctx, "hero", &domain.UpdateContentRequest{Content: map[string]any{
		"heading":  "Crystal clear windows",
		"cta_link": "https://cleanclearsd.com/quote",
	}})
	require.NoError(t, err)
	assert.Equal(t, "Crystal clear windows", got.Content["heading"])
	assert.Equal(t, "", got.Content["subheading"])
	assert.Equal(t, "editor-1", got.UpdatedBy)
	assert.NotEmpty(t, got.UpdatedAt)

	got, err = svc.Update(ctx, "hero", &domain.UpdateContentRequest{Content: map[string]any{
		"subheading": "Serving San Diego",
	}})
	require.NoError(t, err)
	assert.Equal(t, "", got.Content["heading"], "update replaces the whole section")
	assert.Equal(t, "Serving San Diego", got.Content["subheading"])
}

func TestContentService_UpdateRejectsInvalidContent(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "hero", &domain.UpdateContentRequest{Content: map[string]any{"cta_link": "ftp://files"}})
	assert.ErrorIs(t, err, service.ErrInvalidContent)
	var verr *content.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cta_link", verr.Fields[0].Field)

	_, err = svc.Update(ctx, "nope", &domain.UpdateContentRequest{Content: map[string]any{}})
	assert.ErrorIs(t, err, service.ErrContentSectionNotFound)
}
