package category

import (
	"errors"
	"fmt"
	"strings"

	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/slug"
	"gorm.io/gorm"
)

type CreateCategoryDTO struct {
	Name     string  `json:"name" binding:"required"`
	Slug     string  `json:"slug"`
	ParentID *string `json:"parent_id"`
}

type UpdateCategoryDTO struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	ParentID *string `json:"parent_id"`
	// ClearParent detaches the category from its parent when true.
	ClearParent bool `json:"clear_parent"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List() ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	return cats, s.db.Order("created_at ASC").Find(&cats).Error
}

func (s *Service) GetByID(id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) GetBySlug(slugStr string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.Where("slug = ?", slugStr).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) Create(dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	slugValue := slug.OrDerive(dto.Slug, name)
	if slugValue == "" {
		return nil, fmt.Errorf("name must contain at least one slug character")
	}

	var count int64
	s.db.Model(&models.CategoryModel{}).Where("slug = ?", slugValue).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("slug already exists")
	}

	cat := models.CategoryModel{Name: name, Slug: slugValue}
	cat.ParentID = s.resolveParent("", dto.ParentID)
	return &cat, s.db.Create(&cat).Error
}

func (s *Service) Update(id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	cat, err := s.GetByID(id)
	if err != nil || cat == nil {
		return cat, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		updates["name"] = name
	}
	if dto.Slug != nil {
		normalized := slug.Normalize(*dto.Slug)
		if normalized == "" {
			return nil, fmt.Errorf("slug must contain at least one slug character")
		}
		var count int64
		s.db.Model(&models.CategoryModel{}).Where("slug = ? AND id <> ?", normalized, id).Count(&count)
		if count > 0 {
			return nil, fmt.Errorf("slug already exists")
		}
		updates["slug"] = normalized
	}
	if dto.ClearParent {
		updates["parent_id"] = nil
	} else if dto.ParentID != nil {
		updates["parent_id"] = s.resolveParent(id, dto.ParentID)
	}
	if err := s.db.Model(cat).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes a category. Children are reparented to the root and post
// links are dropped, posts themselves survive.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CategoryModel{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_categories WHERE category_model_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CategoryModel{}, "id = ?", id).Error
	})
}

// resolveParent validates a requested parent assignment. A missing parent, a
// self reference, or a reference that would close a cycle is stored as NULL.
func (s *Service) resolveParent(selfID string, parentID *string) *string {
	if parentID == nil || *parentID == "" {
		return nil
	}
	pid := *parentID
	if pid == selfID {
		return nil
	}
	parent, err := s.GetByID(pid)
	if err != nil || parent == nil {
		return nil
	}
	if selfID != "" && wouldCycle(selfID, pid, s.parentLookup()) {
		return nil
	}
	return &pid
}

// resolveTarget accepts a slug first and falls back to an id.
func (s *Service) resolveTarget(slugOrID string) (*models.CategoryModel, error) {
	cat, err := s.GetBySlug(slugOrID)
	if err != nil || cat != nil {
		return cat, err
	}
	return s.GetByID(slugOrID)
}

func (s *Service) parentLookup() func(id string) (string, bool) {
	return func(id string) (string, bool) {
		var cat models.CategoryModel
		if err := s.db.Select("id, parent_id").First(&cat, "id = ?", id).Error; err != nil {
			return "", false
		}
		if cat.ParentID == nil {
			return "", false
		}
		return *cat.ParentID, true
	}
}

// wouldCycle walks the ancestor chain of candidate upward via parentOf and
// reports whether catID appears in it. The walk is bounded so a corrupt chain
// cannot loop forever.
func wouldCycle(catID, candidate string, parentOf func(id string) (string, bool)) bool {
	const maxDepth = 64
	current := candidate
	for i := 0; i < maxDepth; i++ {
		if current == catID {
			return true
		}
		next, ok := parentOf(current)
		if !ok {
			return false
		}
		current = next
	}
	return true
}
