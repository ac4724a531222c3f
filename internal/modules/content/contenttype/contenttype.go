package contenttype

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/response"
	"github.com/techpress/core/internal/pkg/slug"
	"gorm.io/gorm"
)

type CreateContentTypeDTO struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type UpdateContentTypeDTO struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.ContentTypeModel, error) {
	var types []models.ContentTypeModel
	return types, s.db.Order("name ASC").Find(&types).Error
}

func (s *Service) GetBySlug(slugStr string) (*models.ContentTypeModel, error) {
	var ct models.ContentTypeModel
	if err := s.db.Where("slug = ?", slugStr).First(&ct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ct, nil
}

func (s *Service) Create(dto *CreateContentTypeDTO) (*models.ContentTypeModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	slugValue := slug.OrDerive(dto.Slug, name)
	if slugValue == "" {
		return nil, fmt.Errorf("name must contain at least one slug character")
	}
	var count int64
	s.db.Model(&models.ContentTypeModel{}).Where("slug = ?", slugValue).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("slug already exists")
	}
	ct := models.ContentTypeModel{Name: name, Slug: slugValue}
	return &ct, s.db.Create(&ct).Error
}

func (s *Service) Update(id string, dto *UpdateContentTypeDTO) (*models.ContentTypeModel, error) {
	var ct models.ContentTypeModel
	if err := s.db.First(&ct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
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
		s.db.Model(&models.ContentTypeModel{}).Where("slug = ? AND id <> ?", normalized, id).Count(&count)
		if count > 0 {
			return nil, fmt.Errorf("slug already exists")
		}
		updates["slug"] = normalized
	}
	if err := s.db.Model(&ct).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &ct, nil
}

func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_content_types WHERE content_type_model_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ContentTypeModel{}, "id = ?", id).Error
	})
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	types := rg.Group("/content-types")
	types.GET("", h.list)

	authed := types.Group("", authMW)
	authed.POST("", h.create)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	types, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": types})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateContentTypeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ct, err := h.svc.Create(&dto)
	if err != nil {
		if err.Error() == "slug already exists" {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, ct)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateContentTypeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ct, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if err.Error() == "slug already exists" {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	if ct == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, ct)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
