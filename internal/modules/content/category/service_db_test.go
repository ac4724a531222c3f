package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/testdb"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	return testdb.Open(t,
		&models.CategoryModel{},
		&models.TagModel{},
		&models.ContentTypeModel{},
		&models.PostModel{},
	)
}

func TestCreateRejectsBlankName(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)

	// An explicit slug must not smuggle a whitespace-only name past validation.
	_, err := svc.Create(&CreateCategoryDTO{Name: "   ", Slug: "laptops"})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.CategoryModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTrimsName(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)

	cat, err := svc.Create(&CreateCategoryDTO{Name: "  Laptops  "})
	require.NoError(t, err)
	assert.Equal(t, "Laptops", cat.Name)
	assert.Equal(t, "laptops", cat.Slug)
}

func TestUpdateRejectsBlankName(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)

	cat, err := svc.Create(&CreateCategoryDTO{Name: "Laptops"})
	require.NoError(t, err)

	blank := " \t "
	_, err = svc.Update(cat.ID, &UpdateCategoryDTO{Name: &blank})
	require.Error(t, err)

	got, err := svc.GetByID(cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptops", got.Name)
}

func TestUpdateSelfParentStoresNull(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)

	cat, err := svc.Create(&CreateCategoryDTO{Name: "Laptops"})
	require.NoError(t, err)

	// A category naming itself as parent resolves to the root, and repeating
	// the same request stays a no-op.
	for i := 0; i < 2; i++ {
		got, err := svc.Update(cat.ID, &UpdateCategoryDTO{ParentID: &cat.ID})
		require.NoError(t, err)
		assert.Nil(t, got.ParentID)
	}
}

func TestUpdateParentCycleStoresNull(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)

	parent, err := svc.Create(&CreateCategoryDTO{Name: "Hardware"})
	require.NoError(t, err)
	child, err := svc.Create(&CreateCategoryDTO{Name: "Laptops", ParentID: &parent.ID})
	require.NoError(t, err)

	// Making the parent a child of its own descendant would close a cycle.
	got, err := svc.Update(parent.ID, &UpdateCategoryDTO{ParentID: &child.ID})
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	kept, err := svc.GetByID(child.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.ParentID)
	assert.Equal(t, parent.ID, *kept.ParentID)
}
