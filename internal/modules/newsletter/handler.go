package newsletter

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/middleware"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/pagination"
	"github.com/techpress/core/internal/pkg/response"
)

type SendTestDTO struct {
	Email string `json:"email" binding:"required,email"`
}

// SendDTO addresses an issue by slug, the stable identifier external
// schedulers know.
type SendDTO struct {
	Slug string `json:"slug" binding:"required"`
}

type Handler struct {
	svc        *Service
	bc         *Broadcaster
	// triggerToken authorizes broadcast calls from external schedulers
	// without an admin session.
	triggerToken string
}

func NewHandler(svc *Service, bc *Broadcaster, triggerToken string) *Handler {
	return &Handler{svc: svc, bc: bc, triggerToken: triggerToken}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/newsletters")

	// broadcast accepts either an admin session or the trigger token
	g.POST("/send", middleware.OptionalAuth(h.svc.db), h.sendBySlug)
	g.POST("/:id/send", middleware.OptionalAuth(h.svc.db), h.send)

	a := g.Group("", authMW)
	a.GET("", h.list)
	a.GET("/:id", h.get)
	a.GET("/:id/audience", h.audience)
	a.POST("", h.create)
	a.POST("/:id/test", h.sendTest)
	a.PATCH("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, pag, err := h.svc.List(pagination.FromContext(c), lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) get(c *gin.Context) {
	n, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if n == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, n)
}

func (h *Handler) audience(c *gin.Context) {
	n, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if n == nil {
		response.NotFound(c)
		return
	}
	count, err := h.svc.EstimateRecipients(n)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"recipients": count})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateNewsletterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.svc.Create(&dto)
	if err != nil {
		if err.Error() == "slug already exists" {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, n)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateNewsletterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errAlreadySent):
			response.Conflict(c, err.Error())
		case err.Error() == "slug already exists":
			response.Conflict(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}
	if n == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, n)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) send(c *gin.Context) {
	if !middleware.IsAuthenticated(c) && !h.tokenAuthorized(c) {
		response.Unauthorized(c)
		return
	}

	n, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.broadcast(c, n)
}

func (h *Handler) sendBySlug(c *gin.Context) {
	if !middleware.IsAuthenticated(c) && !h.tokenAuthorized(c) {
		response.Unauthorized(c)
		return
	}

	var dto SendDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.svc.GetBySlug(dto.Slug)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.broadcast(c, n)
}

func (h *Handler) broadcast(c *gin.Context, n *models.NewsletterModel) {
	if n == nil {
		response.NotFound(c)
		return
	}
	report, err := h.bc.Send(c.Request.Context(), n)
	if err != nil {
		if errors.Is(err, errAlreadySent) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, report)
}

func (h *Handler) sendTest(c *gin.Context) {
	var dto SendTestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if n == nil {
		response.NotFound(c)
		return
	}
	if err := h.bc.SendTest(n, dto.Email); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"sent": true})
}

func (h *Handler) tokenAuthorized(c *gin.Context) bool {
	if h.triggerToken == "" {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer"))
	if token == "" {
		token = c.Query("token")
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.triggerToken)) == 1
}
