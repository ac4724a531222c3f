package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/testdb"
)

func TestCreateRejectsBlankName(t *testing.T) {
	db := testdb.Open(t, &models.TagModel{}, &models.PostModel{}, &models.CategoryModel{}, &models.ContentTypeModel{})
	svc := NewService(db)

	_, err := svc.Create(&CreateTagDTO{Name: "  ", Slug: "deals"})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.TagModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTrimsName(t *testing.T) {
	db := testdb.Open(t, &models.TagModel{}, &models.PostModel{}, &models.CategoryModel{}, &models.ContentTypeModel{})
	svc := NewService(db)

	tag, err := svc.Create(&CreateTagDTO{Name: " Deals "})
	require.NoError(t, err)
	assert.Equal(t, "Deals", tag.Name)
	assert.Equal(t, "deals", tag.Slug)
}
