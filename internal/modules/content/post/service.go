package post

import (
	"errors"
	"fmt"

	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/pagination"
	"github.com/techpress/core/internal/pkg/response"
	"github.com/techpress/core/internal/pkg/slug"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) preload() *gorm.DB {
	return s.db.Preload("Categories").Preload("Tags").Preload("ContentTypes")
}

// List returns posts matching the query. Unauthenticated callers only see
// published posts regardless of the status filter.
func (s *Service) List(q pagination.Query, lq ListQuery, isAdmin bool) ([]models.PostModel, response.Pagination, error) {
	tx := s.preload().Model(&models.PostModel{})

	if !isAdmin {
		tx = tx.Where("posts.status = ?", models.PostStatusPublished)
	} else if lq.Status != nil && *lq.Status != "" {
		tx = tx.Where("posts.status = ?", *lq.Status)
	}
	if lq.Category != nil && *lq.Category != "" {
		tx = tx.Joins("JOIN post_categories pc ON pc.post_model_id = posts.id").
			Joins("JOIN categories c ON c.id = pc.category_model_id AND c.slug = ?", *lq.Category)
	}
	if lq.Tag != nil && *lq.Tag != "" {
		tx = tx.Joins("JOIN post_tags pt ON pt.post_model_id = posts.id").
			Joins("JOIN tags t ON t.id = pt.tag_model_id AND t.slug = ?", *lq.Tag)
	}
	if lq.ContentType != nil && *lq.ContentType != "" {
		tx = tx.Joins("JOIN post_content_types pct ON pct.post_model_id = posts.id").
			Joins("JOIN content_types ct ON ct.id = pct.content_type_model_id AND ct.slug = ?", *lq.ContentType)
	}
	if lq.Search != nil && *lq.Search != "" {
		like := "%" + *lq.Search + "%"
		tx = tx.Where("posts.title LIKE ? OR posts.excerpt LIKE ?", like, like)
	}

	tx = tx.Order("posts.created_at DESC")
	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

func (s *Service) GetByID(id string) (*models.PostModel, error) {
	var p models.PostModel
	if err := s.preload().First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) GetBySlug(slugStr string, publishedOnly bool) (*models.PostModel, error) {
	tx := s.preload().Where("slug = ?", slugStr)
	if publishedOnly {
		tx = tx.Where("status = ?", models.PostStatusPublished)
	}
	var p models.PostModel
	if err := tx.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Latest returns the newest published posts, used by feeds and the homepage.
func (s *Service) Latest(limit int) ([]models.PostModel, error) {
	if limit <= 0 {
		limit = 10
	}
	var posts []models.PostModel
	err := s.preload().
		Where("status = ?", models.PostStatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// LatestByTaxonomy returns published posts linked to one category or tag slug.
func (s *Service) LatestByTaxonomy(kind, slugStr string, limit int) ([]models.PostModel, error) {
	if limit <= 0 {
		limit = 10
	}
	tx := s.preload().Model(&models.PostModel{}).Where("posts.status = ?", models.PostStatusPublished)
	switch kind {
	case "category":
		tx = tx.Joins("JOIN post_categories pc ON pc.post_model_id = posts.id").
			Joins("JOIN categories c ON c.id = pc.category_model_id AND c.slug = ?", slugStr)
	case "tag":
		tx = tx.Joins("JOIN post_tags pt ON pt.post_model_id = posts.id").
			Joins("JOIN tags t ON t.id = pt.tag_model_id AND t.slug = ?", slugStr)
	default:
		return nil, fmt.Errorf("unknown taxonomy kind %q", kind)
	}
	var posts []models.PostModel
	err := tx.Order("posts.created_at DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (s *Service) Create(dto *CreatePostDTO) (*models.PostModel, error) {
	slugValue := slug.OrDerive(dto.Slug, dto.Title)
	if slugValue == "" {
		return nil, fmt.Errorf("title must contain at least one slug character")
	}
	if taken, err := s.slugTaken(slugValue, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("slug already exists")
	}

	status := dto.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if status != models.PostStatusDraft && status != models.PostStatusPublished {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	format := dto.TextFormat
	if format == "" {
		format = models.TextFormatHTML
	}
	if format != models.TextFormatHTML && format != models.TextFormatMarkdown {
		return nil, fmt.Errorf("invalid text format %q", format)
	}

	p := models.PostModel{
		Title:          dto.Title,
		Slug:           slugValue,
		Excerpt:        dto.Excerpt,
		Text:           dto.Text,
		TextFormat:     format,
		FeaturedImage:  dto.FeaturedImage,
		Status:         status,
		SeoTitle:       dto.SeoTitle,
		SeoDescription: dto.SeoDescription,
		ShowcaseData:   dto.ShowcaseData,
	}
	if dto.DisplayOptions != nil {
		p.DisplayOptions = *dto.DisplayOptions
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return s.replaceLinks(tx, &p, dto.Categories, dto.Tags, dto.ContentTypes)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(p.ID)
}

func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		if *dto.Title == "" {
			return nil, fmt.Errorf("title is required")
		}
		updates["title"] = *dto.Title
	}
	if dto.Slug != nil {
		normalized := slug.Normalize(*dto.Slug)
		if normalized == "" {
			return nil, fmt.Errorf("slug must contain at least one slug character")
		}
		if taken, err := s.slugTaken(normalized, id); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("slug already exists")
		}
		updates["slug"] = normalized
	}
	if dto.Excerpt != nil {
		updates["excerpt"] = *dto.Excerpt
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.TextFormat != nil {
		if *dto.TextFormat != models.TextFormatHTML && *dto.TextFormat != models.TextFormatMarkdown {
			return nil, fmt.Errorf("invalid text format %q", *dto.TextFormat)
		}
		updates["text_format"] = *dto.TextFormat
	}
	if dto.FeaturedImage != nil {
		updates["featured_image"] = *dto.FeaturedImage
	}
	if dto.Status != nil {
		if *dto.Status != models.PostStatusDraft && *dto.Status != models.PostStatusPublished {
			return nil, fmt.Errorf("invalid status %q", *dto.Status)
		}
		updates["status"] = *dto.Status
	}
	if dto.SeoTitle != nil {
		updates["seo_title"] = *dto.SeoTitle
	}
	if dto.SeoDescription != nil {
		updates["seo_description"] = *dto.SeoDescription
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(p).Updates(updates).Error; err != nil {
				return err
			}
		}
		if dto.ShowcaseData != nil {
			if err := tx.Model(p).Update("showcase_data", *dto.ShowcaseData).Error; err != nil {
				return err
			}
		}
		if dto.DisplayOptions != nil {
			if err := tx.Model(p).Update("display_options", *dto.DisplayOptions).Error; err != nil {
				return err
			}
		}
		var cats, tags, types []string
		replaceCats, replaceTags, replaceTypes := dto.Categories != nil, dto.Tags != nil, dto.ContentTypes != nil
		if replaceCats {
			cats = *dto.Categories
		}
		if replaceTags {
			tags = *dto.Tags
		}
		if replaceTypes {
			types = *dto.ContentTypes
		}
		return s.replaceLinksPartial(tx, p, cats, tags, types, replaceCats, replaceTags, replaceTypes)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		p := models.PostModel{Base: models.Base{ID: id}}
		for _, assoc := range []string{"Categories", "Tags", "ContentTypes"} {
			if err := tx.Model(&p).Association(assoc).Clear(); err != nil {
				return err
			}
		}
		return tx.Delete(&models.PostModel{}, "id = ?", id).Error
	})
}

func (s *Service) IncrementReadCount(id string) error {
	return s.db.Model(&models.PostModel{}).
		Where("id = ?", id).
		Update("read_count", gorm.Expr("read_count + 1")).Error
}

func (s *Service) slugTaken(slugStr, excludeID string) (bool, error) {
	tx := s.db.Model(&models.PostModel{}).Where("slug = ?", slugStr)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) replaceLinks(tx *gorm.DB, p *models.PostModel, cats, tags, types []string) error {
	return s.replaceLinksPartial(tx, p, cats, tags, types, true, true, true)
}

// replaceLinksPartial swaps the full link set for each taxonomy whose replace
// flag is set. An unknown slug aborts the surrounding transaction.
func (s *Service) replaceLinksPartial(tx *gorm.DB, p *models.PostModel, cats, tags, types []string, replaceCats, replaceTags, replaceTypes bool) error {
	if replaceCats {
		resolved, err := resolveSlugs[models.CategoryModel](tx, "category", cats)
		if err != nil {
			return err
		}
		if err := tx.Model(p).Association("Categories").Replace(toPtrs(resolved)...); err != nil {
			return err
		}
	}
	if replaceTags {
		resolved, err := resolveSlugs[models.TagModel](tx, "tag", tags)
		if err != nil {
			return err
		}
		if err := tx.Model(p).Association("Tags").Replace(toPtrs(resolved)...); err != nil {
			return err
		}
	}
	if replaceTypes {
		resolved, err := resolveSlugs[models.ContentTypeModel](tx, "content type", types)
		if err != nil {
			return err
		}
		// Content type is single-valued. The join table allows more, so the
		// invariant lives here.
		if len(resolved) > 1 {
			return fmt.Errorf("a post can have at most one content type")
		}
		if err := tx.Model(p).Association("ContentTypes").Replace(toPtrs(resolved)...); err != nil {
			return err
		}
	}
	return nil
}

func resolveSlugs[T any](tx *gorm.DB, kind string, slugs []string) ([]T, error) {
	out := make([]T, 0, len(slugs))
	seen := map[string]bool{}
	for _, sl := range slugs {
		if sl == "" || seen[sl] {
			continue
		}
		seen[sl] = true
		var item T
		if err := tx.Where("slug = ?", sl).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("unknown %s slug %q", kind, sl)
			}
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func toPtrs[T any](items []T) []interface{} {
	out := make([]interface{}, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
