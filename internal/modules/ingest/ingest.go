package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/config"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/response"
	"github.com/techpress/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report summarizes one ingestion run.
type Report struct {
	FeedURL  string   `json:"feed_url"`
	Fetched  int      `json:"fetched"`
	Added    int      `json:"added"`
	Skipped  int      `json:"skipped"`
	AddedIDs []string `json:"added_ids,omitempty"`
}

// Service imports articles from the configured RSS feed into the post table.
type Service struct {
	db    *gorm.DB
	cfg   config.IngestRuntimeConfig
	tasks *taskqueue.Service
	log   *zap.Logger
	http  *http.Client
}

func NewService(db *gorm.DB, cfg config.IngestRuntimeConfig, tasks *taskqueue.Service, log *zap.Logger) *Service {
	return &Service{
		db:    db,
		cfg:   cfg,
		tasks: tasks,
		log:   log,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Run fetches the feed and imports every item whose GUID is not already
// present. Items keep their source attribution and go live immediately.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	if s.cfg.FeedURL == "" {
		return nil, fmt.Errorf("no feed url configured")
	}

	var task *taskqueue.Task
	if s.tasks != nil {
		task, _ = s.tasks.Begin(ctx, "ingest")
	}

	report, err := s.run(ctx)
	if task != nil {
		if err != nil {
			_ = s.tasks.Fail(ctx, task, err)
		} else {
			_ = s.tasks.Complete(ctx, task, report)
		}
	}
	return report, err
}

func (s *Service) run(ctx context.Context) (*Report, error) {
	raw, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	items, _, err := parseFeed(raw, s.cfg.MaxItems)
	if err != nil {
		return nil, err
	}

	report := &Report{FeedURL: s.cfg.FeedURL, Fetched: len(items)}
	for _, item := range items {
		candidate := normalizeItem(item, s.cfg.PlaceholderImage)
		if candidate.GUID == "" || candidate.Title == "" {
			report.Skipped++
			continue
		}

		var count int64
		if err := s.db.Model(&models.PostModel{}).Where("guid = ?", candidate.GUID).Count(&count).Error; err != nil {
			return report, err
		}
		if count > 0 {
			report.Skipped++
			continue
		}

		post, err := s.createPost(candidate)
		if err != nil {
			if s.log != nil {
				s.log.Warn("skipping feed item", zap.String("guid", candidate.GUID), zap.Error(err))
			}
			report.Skipped++
			continue
		}
		report.Added++
		report.AddedIDs = append(report.AddedIDs, post.ID)
	}

	if s.log != nil {
		s.log.Info("feed ingestion finished",
			zap.String("feed", s.cfg.FeedURL),
			zap.Int("fetched", report.Fetched),
			zap.Int("added", report.Added),
			zap.Int("skipped", report.Skipped),
		)
	}
	return report, nil
}

func (s *Service) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.FeedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "techpress-ingest/1.0")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}

func (s *Service) createPost(item feedItem) (*models.PostModel, error) {
	slugValue := item.Slug
	var count int64
	if err := s.db.Model(&models.PostModel{}).Where("slug = ?", slugValue).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		slugValue = slugValue + "-" + strconv.FormatInt(time.Now().Unix(), 10)
	}

	post := models.PostModel{
		Title:          item.Title,
		Slug:           slugValue,
		Excerpt:        item.Excerpt,
		Text:           item.HTML,
		TextFormat:     models.TextFormatHTML,
		FeaturedImage:  item.Image,
		Status:         models.PostStatusPublished,
		SourceName:     item.SourceName,
		SourceURL:      item.Link,
		GUID:           item.GUID,
		SourceKeywords: models.StringArray(item.Keywords),
	}
	return &post, s.db.Create(&post).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/ingest", authMW)
	g.GET("", h.trigger)
	g.POST("/run", h.run)
	g.GET("/runs", h.runs)
}

// trigger GET /ingest  [auth]
// Runs an ingestion pass and answers in the compact shape external
// schedulers poll for.
func (h *Handler) trigger(c *gin.Context) {
	report, err := h.svc.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"added":   report.Added,
		"skipped": report.Skipped,
	})
}

// run POST /ingest/run  [auth]
func (h *Handler) run(c *gin.Context) {
	report, err := h.svc.Run(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, report)
}

// runs GET /ingest/runs  [auth]
func (h *Handler) runs(c *gin.Context) {
	if h.svc.tasks == nil {
		response.OK(c, gin.H{"data": []interface{}{}})
		return
	}
	tasks, err := h.svc.tasks.Recent(c.Request.Context(), "ingest", 10)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": tasks})
}
