package tag

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

type CreateTagDTO struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type UpdateTagDTO struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

type tagResponse struct {
	models.TagModel
	PostCount int64 `json:"post_count"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]tagResponse, error) {
	var tags []models.TagModel
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	out := make([]tagResponse, len(tags))
	for i, t := range tags {
		var count int64
		s.db.Table("post_tags").Where("tag_model_id = ?", t.ID).Count(&count)
		out[i] = tagResponse{TagModel: t, PostCount: count}
	}
	return out, nil
}

func (s *Service) GetBySlug(slugStr string) (*models.TagModel, error) {
	var t models.TagModel
	if err := s.db.Where("slug = ?", slugStr).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *Service) Create(dto *CreateTagDTO) (*models.TagModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	slugValue := slug.OrDerive(dto.Slug, name)
	if slugValue == "" {
		return nil, fmt.Errorf("name must contain at least one slug character")
	}
	var count int64
	s.db.Model(&models.TagModel{}).Where("slug = ?", slugValue).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("slug already exists")
	}
	t := models.TagModel{Name: name, Slug: slugValue}
	return &t, s.db.Create(&t).Error
}

func (s *Service) Update(id string, dto *UpdateTagDTO) (*models.TagModel, error) {
	var t models.TagModel
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
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
		s.db.Model(&models.TagModel{}).Where("slug = ? AND id <> ?", normalized, id).Count(&count)
		if count > 0 {
			return nil, fmt.Errorf("slug already exists")
		}
		updates["slug"] = normalized
	}
	if err := s.db.Model(&t).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_tags WHERE tag_model_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TagModel{}, "id = ?", id).Error
	})
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	tags := rg.Group("/tags")
	tags.GET("", h.list)

	authed := tags.Group("", authMW)
	authed.POST("", h.create)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	tags, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": tags})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateTagDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.Create(&dto)
	if err != nil {
		if err.Error() == "slug already exists" {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, t)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateTagDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if err.Error() == "slug already exists" {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	if t == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, t)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
