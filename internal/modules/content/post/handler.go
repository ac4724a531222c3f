package post

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/middleware"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/markdown"
	"github.com/techpress/core/internal/pkg/pagination"
	"github.com/techpress/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	posts := rg.Group("/posts")

	posts.GET("", middleware.OptionalAuth(h.svc.db), h.list)
	posts.GET("/latest", h.latest)
	posts.GET("/:slug", middleware.OptionalAuth(h.svc.db), h.getBySlug)

	authed := posts.Group("", authMW)
	authed.POST("", h.create)
	authed.PATCH("/id/:id", h.update)
	authed.DELETE("/id/:id", h.delete)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posts, pag, err := h.svc.List(q, lq, middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]postResponse, len(posts))
	for i, p := range posts {
		items[i] = toResponse(&p)
	}
	response.Paged(c, items, pag)
}

// latest GET /posts/latest
func (h *Handler) latest(c *gin.Context) {
	posts, err := h.svc.Latest(10)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]postResponse, len(posts))
	for i, p := range posts {
		items[i] = toResponse(&p)
	}
	response.OK(c, gin.H{"data": items})
}

// getBySlug GET /posts/:slug
func (h *Handler) getBySlug(c *gin.Context) {
	isAdmin := middleware.IsAuthenticated(c)

	p, err := h.svc.GetBySlug(c.Param("slug"), !isAdmin)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}

	if !isAdmin {
		go func() { _ = h.svc.IncrementReadCount(p.ID) }()
	}

	resp := toResponse(p)
	if p.TextFormat == models.TextFormatMarkdown {
		resp.RenderedText = markdown.Render(p.Text)
	}
	response.OK(c, resp)
}

// create POST /posts  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Create(&dto)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Created(c, toResponse(p))
}

// update PATCH /posts/id/:id  [auth]
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(p))
}

// delete DELETE /posts/id/:id  [auth]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case msg == "slug already exists":
		response.Conflict(c, msg)
	case strings.HasPrefix(msg, "unknown "),
		strings.HasPrefix(msg, "invalid "),
		strings.Contains(msg, "is required"),
		strings.Contains(msg, "slug character"):
		response.BadRequest(c, msg)
	default:
		response.InternalError(c, err)
	}
}
