package newsletter

import (
	"errors"
	"fmt"

	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/pagination"
	"github.com/techpress/core/internal/pkg/response"
	"github.com/techpress/core/internal/pkg/slug"
	"gorm.io/gorm"
)

type CreateNewsletterDTO struct {
	Subject      string               `json:"subject" binding:"required"`
	Slug         string               `json:"slug"`
	PreviewText  string               `json:"preview_text"`
	Content      string               `json:"content"`
	TargetConfig *models.TargetConfig `json:"target_config"`
}

type UpdateNewsletterDTO struct {
	Subject      *string              `json:"subject"`
	Slug         *string              `json:"slug"`
	PreviewText  *string              `json:"preview_text"`
	Content      *string              `json:"content"`
	TargetConfig *models.TargetConfig `json:"target_config"`
}

type ListQuery struct {
	Status *string `form:"status"`
}

var errAlreadySent = errors.New("newsletter already sent")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func validateTarget(t *models.TargetConfig) error {
	switch t.Type {
	case "", models.TargetAll, models.TargetFilter:
		return nil
	case models.TargetManual:
		if len(t.IDs) == 0 {
			return fmt.Errorf("manual target needs at least one subscriber id")
		}
		return nil
	default:
		return fmt.Errorf("invalid target type %q", t.Type)
	}
}

func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.NewsletterModel, response.Pagination, error) {
	tx := s.db.Model(&models.NewsletterModel{})
	if lq.Status != nil && *lq.Status != "" {
		tx = tx.Where("status = ?", *lq.Status)
	}
	tx = tx.Order("created_at DESC")

	var items []models.NewsletterModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.NewsletterModel, error) {
	var n models.NewsletterModel
	if err := s.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (s *Service) GetBySlug(slugStr string) (*models.NewsletterModel, error) {
	var n models.NewsletterModel
	if err := s.db.Where("slug = ?", slugStr).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (s *Service) Create(dto *CreateNewsletterDTO) (*models.NewsletterModel, error) {
	slugValue := slug.OrDerive(dto.Slug, dto.Subject)
	if slugValue == "" {
		return nil, fmt.Errorf("subject must contain at least one slug character")
	}
	var count int64
	s.db.Model(&models.NewsletterModel{}).Where("slug = ?", slugValue).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("slug already exists")
	}

	n := models.NewsletterModel{
		Subject:     dto.Subject,
		Slug:        slugValue,
		PreviewText: dto.PreviewText,
		Content:     dto.Content,
		Status:      models.NewsletterDraft,
	}
	if dto.TargetConfig != nil {
		if err := validateTarget(dto.TargetConfig); err != nil {
			return nil, err
		}
		n.TargetConfig = *dto.TargetConfig
	} else {
		n.TargetConfig = models.TargetConfig{Type: models.TargetAll}
	}
	return &n, s.db.Create(&n).Error
}

// Update edits a draft. Sent issues are immutable.
func (s *Service) Update(id string, dto *UpdateNewsletterDTO) (*models.NewsletterModel, error) {
	n, err := s.GetByID(id)
	if err != nil || n == nil {
		return n, err
	}
	if n.Status == models.NewsletterSent {
		return nil, errAlreadySent
	}

	updates := map[string]interface{}{}
	if dto.Subject != nil {
		if *dto.Subject == "" {
			return nil, fmt.Errorf("subject is required")
		}
		updates["subject"] = *dto.Subject
	}
	if dto.Slug != nil {
		normalized := slug.Normalize(*dto.Slug)
		if normalized == "" {
			return nil, fmt.Errorf("slug must contain at least one slug character")
		}
		var count int64
		s.db.Model(&models.NewsletterModel{}).Where("slug = ? AND id <> ?", normalized, id).Count(&count)
		if count > 0 {
			return nil, fmt.Errorf("slug already exists")
		}
		updates["slug"] = normalized
	}
	if dto.PreviewText != nil {
		updates["preview_text"] = *dto.PreviewText
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.TargetConfig != nil {
		if err := validateTarget(dto.TargetConfig); err != nil {
			return nil, err
		}
		updates["target_config"] = *dto.TargetConfig
	}
	if err := s.db.Model(n).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.NewsletterModel{}, "id = ?", id).Error
}

// Audience loads the subscribers a newsletter would reach right now.
func (s *Service) Audience(n *models.NewsletterModel) ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	if err := s.db.Where("status = ?", models.SubscriberActive).Find(&subs).Error; err != nil {
		return nil, err
	}
	return filterAudience(subs, n.TargetConfig), nil
}

// EstimateRecipients counts the audience without loading message content.
func (s *Service) EstimateRecipients(n *models.NewsletterModel) (int, error) {
	audience, err := s.Audience(n)
	if err != nil {
		return 0, err
	}
	return len(audience), nil
}
