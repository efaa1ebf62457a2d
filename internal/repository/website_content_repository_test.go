package repository_test

import (
	"context"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWebsiteContentRepository_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWebsiteContentRepository(db)
	ctx := context.Background()

	_, err := repo.GetBySectionKey(ctx, "hero")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Upsert(ctx, &domain.WebsiteContent{
		SectionKey: "hero",
		Content:    map[string]any{"heading": "Spotless"},
		UpdatedBy:  "admin-1",
	}))
	require.NoError(t, repo.Upsert(ctx, &domain.WebsiteContent{
		SectionKey: "hero",
		Content:    map[string]any{"heading": "Crystal clear"},
		UpdatedBy:  "admin-2",
	}))

	stored, err := repo.GetBySectionKey(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, "Crystal clear", stored.Content["heading"])
	assert.Equal(t, "admin-2", stored.UpdatedBy)

	var count int64
	require.NoError(t, db.Model(&domain.WebsiteContent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
