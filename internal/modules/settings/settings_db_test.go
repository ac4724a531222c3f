package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/testdb"
)

func TestGetPersistsDefaults(t *testing.T) {
	db := testdb.Open(t, &models.SiteSettingsModel{})
	svc := NewService(db)

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "Techpress", got.SiteName)

	// The defaults must land in the database, not just the cache, so a
	// restart sees the same values.
	var row models.SiteSettingsModel
	require.NoError(t, db.First(&row, "id = ?", models.SiteSettingsID).Error)
	assert.Equal(t, "Techpress", row.SiteName)

	reloaded, err := NewService(db).Get()
	require.NoError(t, err)
	assert.Equal(t, got.SiteName, reloaded.SiteName)
}

func TestReplaceSurvivesCacheInvalidation(t *testing.T) {
	db := testdb.Open(t, &models.SiteSettingsModel{})
	svc := NewService(db)

	current, err := svc.Get()
	require.NoError(t, err)

	updated := *current
	updated.SiteName = "Acme Review"
	_, err = svc.Replace(&updated)
	require.NoError(t, err)

	svc.Invalidate()
	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "Acme Review", got.SiteName)
}
