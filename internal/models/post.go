package models

// Post status values.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post text formats. Ingested and editor-authored bodies are HTML; markdown
// bodies are rendered on the public read path.
const (
	TextFormatHTML     = "html"
	TextFormatMarkdown = "markdown"
)

// ShowcaseItem is one award/product entry on a showcase post.
type ShowcaseItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Link        string `json:"link,omitempty"`
	Award       string `json:"award,omitempty"`
	Price       string `json:"price,omitempty"`
}

// DisplayOptions controls how a post is rendered on the public site.
type DisplayOptions struct {
	HideHeader        bool   `json:"hide_header,omitempty"`
	HideShowcaseTitle bool   `json:"hide_showcase_title,omitempty"`
	GridColumns       int    `json:"grid_columns,omitempty"`
	ImageShape        string `json:"image_shape,omitempty"` // "square" | "portrait" | "landscape"
	SponsorBlock      string `json:"sponsor_block,omitempty"`
}

// PostModel is an article, either authored in the admin console or imported
// by the RSS ingestion job.
type PostModel struct {
	Base
	Title          string         `json:"title"           gorm:"not null"`
	Slug           string         `json:"slug"            gorm:"uniqueIndex;not null"`
	Excerpt        string         `json:"excerpt"`
	Text           string         `json:"text"            gorm:"type:longtext"`
	TextFormat     string         `json:"text_format"     gorm:"default:html"`
	FeaturedImage  string         `json:"featured_image"`
	Status         string         `json:"status"          gorm:"default:draft;index"`
	SeoTitle       string         `json:"seo_title"`
	SeoDescription string         `json:"seo_description"`
	ShowcaseData   []ShowcaseItem `json:"showcase_data"   gorm:"type:longtext;serializer:json"`
	DisplayOptions DisplayOptions `json:"display_options" gorm:"type:longtext;serializer:json"`
	ReadCount      int            `json:"read"            gorm:"column:read_count;default:0"`

	// Provenance of ingested articles. GUID dedups feed items.
	SourceName     string      `json:"source_name"`
	SourceURL      string      `json:"source_url"`
	GUID           string      `json:"guid"            gorm:"column:guid;index"`
	SourceKeywords StringArray `json:"source_keywords" gorm:"type:longtext"`

	Categories   []CategoryModel    `json:"categories,omitempty"    gorm:"many2many:post_categories"`
	Tags         []TagModel         `json:"tags,omitempty"          gorm:"many2many:post_tags"`
	ContentTypes []ContentTypeModel `json:"content_types,omitempty" gorm:"many2many:post_content_types"`
}

func (PostModel) TableName() string { return "posts" }

// IsPublished reports whether the post is publicly visible.
func (p PostModel) IsPublished() bool { return p.Status == PostStatusPublished }

// ContentType returns the single linked content type, if any.
func (p PostModel) ContentType() *ContentTypeModel {
	if len(p.ContentTypes) == 0 {
		return nil
	}
	return &p.ContentTypes[0]
}
