package subscriber

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/pagination"
	"github.com/techpress/core/internal/pkg/response"
	"gorm.io/gorm"
)

type SubscribeDTO struct {
	Email  string `json:"email" binding:"required"`
	Source string `json:"source"`
}

type UpdateSubscriberDTO struct {
	Status      *string                       `json:"status"`
	Preferences *models.SubscriberPreferences `json:"preferences"`
}

type ListQuery struct {
	Status *string `form:"status"`
	Source *string `form:"source"`
	Search *string `form:"q"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func validStatus(s string) bool {
	switch s {
	case models.SubscriberActive, models.SubscriberBounced, models.SubscriberUnsubscribed:
		return true
	}
	return false
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("invalid email address")
	}
	return email, nil
}

// Subscribe creates a subscriber or reactivates an unsubscribed one. An
// already-active email is a no-op so the public form cannot probe the list.
func (s *Service) Subscribe(dto *SubscribeDTO) (*models.SubscriberModel, error) {
	email, err := normalizeEmail(dto.Email)
	if err != nil {
		return nil, err
	}

	var existing models.SubscriberModel
	err = s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Status != models.SubscriberActive {
			if err := s.db.Model(&existing).Update("status", models.SubscriberActive).Error; err != nil {
				return nil, err
			}
			existing.Status = models.SubscriberActive
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub := models.SubscriberModel{Email: email, Status: models.SubscriberActive, Source: dto.Source}
	return &sub, s.db.Create(&sub).Error
}

// Unsubscribe flips a subscriber to unsubscribed by id. Used by the one-click
// footer link in newsletters, so unknown ids succeed silently.
func (s *Service) Unsubscribe(id string) error {
	return s.db.Model(&models.SubscriberModel{}).
		Where("id = ?", id).
		Update("status", models.SubscriberUnsubscribed).Error
}

func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.SubscriberModel, response.Pagination, error) {
	tx := s.db.Model(&models.SubscriberModel{})
	if lq.Status != nil && *lq.Status != "" {
		tx = tx.Where("status = ?", *lq.Status)
	}
	if lq.Source != nil && *lq.Source != "" {
		tx = tx.Where("source = ?", *lq.Source)
	}
	if lq.Search != nil && *lq.Search != "" {
		tx = tx.Where("email LIKE ?", "%"+*lq.Search+"%")
	}
	tx = tx.Order("created_at DESC")

	var subs []models.SubscriberModel
	pag, err := pagination.Paginate(tx, q, &subs)
	return subs, pag, err
}

func (s *Service) GetByID(id string) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *Service) Update(id string, dto *UpdateSubscriberDTO) (*models.SubscriberModel, error) {
	sub, err := s.GetByID(id)
	if err != nil || sub == nil {
		return sub, err
	}
	updates := map[string]interface{}{}
	if dto.Status != nil {
		if !validStatus(*dto.Status) {
			return nil, fmt.Errorf("invalid status %q", *dto.Status)
		}
		updates["status"] = *dto.Status
	}
	if dto.Preferences != nil {
		updates["preferences"] = *dto.Preferences
	}
	if len(updates) == 0 {
		return sub, nil
	}
	if err := s.db.Model(sub).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.SubscriberModel{}, "id = ?", id).Error
}

// CountByStatus returns subscriber totals keyed by status.
func (s *Service) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := s.db.Model(&models.SubscriberModel{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[string]int64{}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/subscribers")

	g.POST("/subscribe", h.subscribe)
	g.POST("/:id/unsubscribe", h.unsubscribe)
	g.GET("/:id/unsubscribe", h.unsubscribe) // email clients follow links with GET

	a := g.Group("", authMW)
	a.GET("", h.list)
	a.GET("/stats", h.stats)
	a.PATCH("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := h.svc.Subscribe(&dto); err != nil {
		if err.Error() == "invalid email address" {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"subscribed": true})
}

func (h *Handler) unsubscribe(c *gin.Context) {
	if err := h.svc.Unsubscribe(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"unsubscribed": true})
}

func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	subs, pag, err := h.svc.List(pagination.FromContext(c), lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, subs, pag)
}

func (h *Handler) stats(c *gin.Context) {
	counts, err := h.svc.CountByStatus()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, counts)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSubscriberDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sub, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if sub == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, sub)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
