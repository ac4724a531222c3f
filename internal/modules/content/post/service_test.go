package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/testdb"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	db := testdb.Open(t,
		&models.CategoryModel{},
		&models.TagModel{},
		&models.ContentTypeModel{},
		&models.PostModel{},
	)
	require.NoError(t, db.Create(&models.ContentTypeModel{Name: "Review", Slug: "review"}).Error)
	require.NoError(t, db.Create(&models.ContentTypeModel{Name: "News", Slug: "news"}).Error)
	return db
}

func TestCreateLinksSingleContentType(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)

	p, err := svc.Create(&CreatePostDTO{
		Title:        "Best camera lenses",
		ContentTypes: []string{"review"},
	})
	require.NoError(t, err)
	require.Len(t, p.ContentTypes, 1)
	assert.Equal(t, "review", p.ContentTypes[0].Slug)
}

func TestCreateRejectsSecondContentType(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)

	_, err := svc.Create(&CreatePostDTO{
		Title:        "Best camera lenses",
		ContentTypes: []string{"review", "news"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one content type")

	// The transaction rolled back, so neither the post nor any link survives.
	var posts int64
	require.NoError(t, db.Model(&models.PostModel{}).Count(&posts).Error)
	assert.Zero(t, posts)
	var links int64
	require.NoError(t, db.Table("post_content_types").Count(&links).Error)
	assert.Zero(t, links)
}

func TestUpdateRejectsSecondContentType(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)

	p, err := svc.Create(&CreatePostDTO{
		Title:        "Best camera lenses",
		ContentTypes: []string{"review"},
	})
	require.NoError(t, err)

	both := []string{"review", "news"}
	_, err = svc.Update(p.ID, &UpdatePostDTO{ContentTypes: &both})
	require.Error(t, err)

	got, err := svc.GetByID(p.ID)
	require.NoError(t, err)
	require.Len(t, got.ContentTypes, 1)
	assert.Equal(t, "review", got.ContentTypes[0].Slug)
}
