package post

import (
	"time"

	"github.com/techpress/core/internal/models"
)

// CreatePostDTO is the request body for creating a post. Taxonomy links are
// passed as slugs.
type CreatePostDTO struct {
	Title          string                 `json:"title" binding:"required"`
	Slug           string                 `json:"slug"`
	Excerpt        string                 `json:"excerpt"`
	Text           string                 `json:"text"`
	TextFormat     string                 `json:"text_format"`
	FeaturedImage  string                 `json:"featured_image"`
	Status         string                 `json:"status"`
	SeoTitle       string                 `json:"seo_title"`
	SeoDescription string                 `json:"seo_description"`
	ShowcaseData   []models.ShowcaseItem  `json:"showcase_data"`
	DisplayOptions *models.DisplayOptions `json:"display_options"`
	Categories     []string               `json:"categories"`
	Tags           []string               `json:"tags"`
	ContentTypes   []string               `json:"content_types"`
}

// UpdatePostDTO is the request body for updating a post, all fields optional.
// A taxonomy field that is present replaces the full link set; absent fields
// leave links untouched.
type UpdatePostDTO struct {
	Title          *string                `json:"title"`
	Slug           *string                `json:"slug"`
	Excerpt        *string                `json:"excerpt"`
	Text           *string                `json:"text"`
	TextFormat     *string                `json:"text_format"`
	FeaturedImage  *string                `json:"featured_image"`
	Status         *string                `json:"status"`
	SeoTitle       *string                `json:"seo_title"`
	SeoDescription *string                `json:"seo_description"`
	ShowcaseData   *[]models.ShowcaseItem `json:"showcase_data"`
	DisplayOptions *models.DisplayOptions `json:"display_options"`
	Categories     *[]string              `json:"categories"`
	Tags           *[]string              `json:"tags"`
	ContentTypes   *[]string              `json:"content_types"`
}

// ListQuery holds query params for listing posts.
type ListQuery struct {
	Status      *string `form:"status"`
	Category    *string `form:"category"`
	Tag         *string `form:"tag"`
	ContentType *string `form:"content_type"`
	Search      *string `form:"q"`
}

type postResponse struct {
	ID             string                    `json:"id"`
	Title          string                    `json:"title"`
	Slug           string                    `json:"slug"`
	Excerpt        string                    `json:"excerpt"`
	Text           string                    `json:"text"`
	TextFormat     string                    `json:"text_format"`
	RenderedText   string                    `json:"rendered_text,omitempty"`
	FeaturedImage  string                    `json:"featured_image"`
	Status         string                    `json:"status"`
	SeoTitle       string                    `json:"seo_title"`
	SeoDescription string                    `json:"seo_description"`
	ShowcaseData   []models.ShowcaseItem     `json:"showcase_data"`
	DisplayOptions models.DisplayOptions     `json:"display_options"`
	ReadCount      int                       `json:"read"`
	SourceName     string                    `json:"source_name,omitempty"`
	SourceURL      string                    `json:"source_url,omitempty"`
	Categories     []models.CategoryModel    `json:"categories"`
	Tags           []models.TagModel         `json:"tags"`
	ContentTypes   []models.ContentTypeModel `json:"content_types"`
	Created        time.Time                 `json:"created"`
	Modified       *time.Time                `json:"modified"`
}

func toResponse(p *models.PostModel) postResponse {
	showcase := p.ShowcaseData
	if showcase == nil {
		showcase = []models.ShowcaseItem{}
	}
	cats := p.Categories
	if cats == nil {
		cats = []models.CategoryModel{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []models.TagModel{}
	}
	types := p.ContentTypes
	if types == nil {
		types = []models.ContentTypeModel{}
	}
	var modified *time.Time
	if !p.UpdatedAt.IsZero() {
		modifiedAt := p.UpdatedAt
		modified = &modifiedAt
	}
	return postResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Excerpt,
		Text:           p.Text,
		TextFormat:     p.TextFormat,
		FeaturedImage:  p.FeaturedImage,
		Status:         p.Status,
		SeoTitle:       p.SeoTitle,
		SeoDescription: p.SeoDescription,
		ShowcaseData:   showcase,
		DisplayOptions: p.DisplayOptions,
		ReadCount:      p.ReadCount,
		SourceName:     p.SourceName,
		SourceURL:      p.SourceURL,
		Categories:     cats,
		Tags:           tags,
		ContentTypes:   types,
		Created:        p.CreatedAt,
		Modified:       modified,
	}
}
