package contenttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/testdb"
)

func TestCreateRejectsBlankName(t *testing.T) {
	db := testdb.Open(t, &models.ContentTypeModel{}, &models.PostModel{}, &models.CategoryModel{}, &models.TagModel{})
	svc := NewService(db)

	_, err := svc.Create(&CreateContentTypeDTO{Name: "\t ", Slug: "review"})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.ContentTypeModel{}).Count(&count).Error)
	assert.Zero(t, count)
}
