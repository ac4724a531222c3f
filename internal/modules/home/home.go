package home

import (
	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/modules/content/post"
	"github.com/techpress/core/internal/modules/settings"
	"github.com/techpress/core/internal/pkg/response"
)

// postCard is the reduced post shape embedded in resolved homepage blocks.
type postCard struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	FeaturedImage string `json:"featured_image"`
	SourceName    string `json:"source_name,omitempty"`
	SourceURL     string `json:"source_url,omitempty"`
	Created       int64  `json:"created"`
}

// resolvedBlock is a homepage block with its live content attached.
type resolvedBlock struct {
	ID    string      `json:"id"`
	Type  string      `json:"type"`
	Data  interface{} `json:"data"`
	Posts []postCard  `json:"posts,omitempty"`
}

// Service assembles the public homepage payload: site identity, the enabled
// homepage blocks with smart feeds resolved to posts, and the footer.
type Service struct {
	settings *settings.Service
	posts    *post.Service
}

func NewService(settingsSvc *settings.Service, postSvc *post.Service) *Service {
	return &Service{settings: settingsSvc, posts: postSvc}
}

func toCard(p *models.PostModel) postCard {
	return postCard{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		SourceName:    p.SourceName,
		SourceURL:     p.SourceURL,
		Created:       p.CreatedAt.Unix(),
	}
}

func toCards(posts []models.PostModel) []postCard {
	out := make([]postCard, len(posts))
	for i := range posts {
		out[i] = toCard(&posts[i])
	}
	return out
}

// Assemble builds the homepage payload. Disabled blocks are dropped; a block
// whose payload fails to decode is skipped rather than failing the page.
func (s *Service) Assemble() (gin.H, error) {
	site, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	blocks := make([]resolvedBlock, 0, len(site.HomepageLayout))
	for _, b := range site.HomepageLayout {
		if !b.Enabled {
			continue
		}
		resolved, ok := s.resolveBlock(b)
		if ok {
			blocks = append(blocks, resolved)
		}
	}

	return gin.H{
		"site": gin.H{
			"name":        site.SiteName,
			"description": site.SiteDescription,
			"url":         site.SiteURL,
			"navigation":  site.NavigationMenu,
			"cta":         site.CTA,
		},
		"blocks": blocks,
		"footer": enabledFooter(site.FooterConfig),
	}, nil
}

func (s *Service) resolveBlock(b models.Block) (resolvedBlock, bool) {
	data, err := b.DecodeHomepageData()
	if err != nil {
		return resolvedBlock{}, false
	}
	out := resolvedBlock{ID: b.ID, Type: b.Type, Data: data}

	switch payload := data.(type) {
	case models.SmartFeedData:
		out.Posts = s.resolveSmartFeed(payload)
	case models.FeatureGridData:
		out.Posts = s.resolveFeatureGrid(payload)
	}
	return out, true
}

func (s *Service) resolveSmartFeed(data models.SmartFeedData) []postCard {
	limit := data.Limit
	if limit <= 0 {
		limit = 6
	}
	var (
		posts []models.PostModel
		err   error
	)
	switch data.Source {
	case "category", "tag":
		posts, err = s.posts.LatestByTaxonomy(data.Source, data.Ref, limit)
	default:
		posts, err = s.posts.Latest(limit)
	}
	if err != nil {
		return []postCard{}
	}
	return toCards(posts)
}

// resolveFeatureGrid loads the pinned posts, keeping the configured order.
// Unknown or unpublished slugs drop out silently.
func (s *Service) resolveFeatureGrid(data models.FeatureGridData) []postCard {
	out := make([]postCard, 0, len(data.PostSlugs))
	for _, slug := range data.PostSlugs {
		p, err := s.posts.GetBySlug(slug, true)
		if err != nil || p == nil {
			continue
		}
		out = append(out, toCard(p))
	}
	return out
}

// enabledFooter strips disabled blocks from each footer column.
func enabledFooter(fc models.FooterConfig) gin.H {
	filter := func(col []models.Block) []models.Block {
		out := make([]models.Block, 0, len(col))
		for _, b := range col {
			if b.Enabled {
				out = append(out, b)
			}
		}
		return out
	}
	return gin.H{
		"column1": filter(fc.Column1),
		"column2": filter(fc.Column2),
		"column3": filter(fc.Column3),
	}
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("/home", h.get)
}

func (h *Handler) get(c *gin.Context) {
	payload, err := h.svc.Assemble()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, payload)
}
