package analytics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/pkg/response"
)

// trackingPixel is a 1x1 transparent GIF.
var trackingPixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

type RecordViewDTO struct {
	Path    string `json:"path" binding:"required"`
	PostID  string `json:"post_id"`
	Referer string `json:"referer"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/analytics")

	// public ingestion endpoints
	g.POST("/view", h.recordView)
	g.GET("/pixel.gif", h.pixel)

	a := g.Group("", authMW)
	a.GET("/views", h.views)
	a.GET("/opens", h.opens)
	a.GET("/top", h.top)
	a.GET("/subscribers", h.subscriberGrowth)
	a.GET("/newsletters/:id", h.newsletterStats)
}

// recordView POST /analytics/view
// The public frontend beacons page views here.
func (h *Handler) recordView(c *gin.Context) {
	var dto RecordViewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	visitor := VisitorID(c.ClientIP(), c.Request.UserAgent())
	if err := h.svc.RecordView(dto.Path, dto.PostID, visitor, dto.Referer); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// pixel GET /analytics/pixel.gif?n=<newsletter>&r=<recipient>
// Always returns the GIF; a failed insert must not break email rendering.
func (h *Handler) pixel(c *gin.Context) {
	newsletterID := c.Query("n")
	recipientID := c.Query("r")
	if newsletterID != "" {
		_ = h.svc.RecordOpen(newsletterID, recipientID)
	}
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Data(http.StatusOK, "image/gif", trackingPixel)
}

func daysParam(c *gin.Context) int {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	return days
}

func (h *Handler) views(c *gin.Context) {
	series, err := h.svc.ViewsSeries(daysParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": series})
}

func (h *Handler) opens(c *gin.Context) {
	series, err := h.svc.OpensSeries(daysParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": series})
}

func (h *Handler) top(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	entries, err := h.svc.TopContent(daysParam(c), limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if entries == nil {
		entries = []TopContentEntry{}
	}
	response.OK(c, gin.H{"data": entries})
}

func (h *Handler) subscriberGrowth(c *gin.Context) {
	series, err := h.svc.SubscriberGrowth(daysParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": series})
}

func (h *Handler) newsletterStats(c *gin.Context) {
	total, unique, err := h.svc.NewsletterOpenStats(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"total_opens": total, "unique_opens": unique})
}
