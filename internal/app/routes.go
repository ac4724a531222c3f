package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/middleware"
	"github.com/techpress/core/internal/modules/analytics"
	"github.com/techpress/core/internal/modules/auth"
	"github.com/techpress/core/internal/modules/contact"
	"github.com/techpress/core/internal/modules/content/category"
	"github.com/techpress/core/internal/modules/content/contenttype"
	"github.com/techpress/core/internal/modules/content/post"
	"github.com/techpress/core/internal/modules/content/tag"
	"github.com/techpress/core/internal/modules/home"
	"github.com/techpress/core/internal/modules/ingest"
	"github.com/techpress/core/internal/modules/layout"
	"github.com/techpress/core/internal/modules/media"
	"github.com/techpress/core/internal/modules/newsletter"
	"github.com/techpress/core/internal/modules/settings"
	"github.com/techpress/core/internal/modules/subscriber"
	"github.com/techpress/core/internal/modules/syndication/feed"
	"github.com/techpress/core/internal/pkg/mail"
	pkgredis "github.com/techpress/core/internal/pkg/redis"
	"github.com/techpress/core/internal/pkg/response"
	"github.com/techpress/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	cfg := a.cfg
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "techpress-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/techpress/core",
	}

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	// Shared services
	analyticsSvc := analytics.NewService(db, a.logger)
	r.Use(analytics.Middleware(analyticsSvc))

	settingsSvc := settings.NewService(db)
	taskSvc := taskqueue.NewService(rc)
	mailer := mail.New(mail.Config{
		Enable:    cfg.Mail.Enable,
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		User:      cfg.Mail.User,
		Pass:      cfg.Mail.Pass,
		From:      cfg.Mail.From,
		ReplyTo:   cfg.Mail.ReplyTo,
		UseResend: cfg.Mail.UseResend,
		ResendKey: cfg.Mail.ResendKey,
	})

	authSvc := auth.NewService(db)
	if err := authSvc.EnsureAdmin(cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password); err != nil {
		a.logger.Warn("admin seed failed", zap.Error(err))
	}

	siteName := "Techpress"
	siteURL := ""
	if site, err := settingsSvc.Get(); err == nil {
		siteName = site.SiteName
		siteURL = strings.TrimSuffix(site.SiteURL, "/")
	} else {
		a.logger.Warn("site settings unavailable at boot", zap.Error(err))
	}

	// Root-level endpoints
	root := r.Group("")
	feed.RegisterRoutes(root, db, settingsSvc) // /feed, /feed.xml, /atom.xml
	r.Static("/static", cfg.Paths.Static)

	// Versioned API
	apiPrefix := "/api/v1"
	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   cfg.IsDev(),
		SkipPaths: httpCacheSkipPaths(apiPrefix),
	}))

	// App info endpoints
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	api.GET("/clean_cache", authMW, func(c *gin.Context) {
		settingsSvc.Invalidate()
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"ok":      0,
				"code":    http.StatusInternalServerError,
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
	})

	// Auth
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)

	// Site settings and layout
	settings.NewHandler(settingsSvc).RegisterRoutes(api, authMW)
	layout.NewHandler(layout.NewService(settingsSvc)).RegisterRoutes(api, authMW)

	// Content
	postSvc := post.NewService(db)
	post.NewHandler(postSvc).RegisterRoutes(api, authMW)
	category.NewHandler(category.NewService(db)).RegisterRoutes(api, authMW)
	tag.NewHandler(tag.NewService(db)).RegisterRoutes(api, authMW)
	contenttype.NewHandler(contenttype.NewService(db)).RegisterRoutes(api, authMW)

	// Homepage assembly
	home.NewHandler(home.NewService(settingsSvc, postSvc)).RegisterRoutes(api, authMW)

	// Audience
	subscriber.NewHandler(subscriber.NewService(db)).RegisterRoutes(api, authMW)
	newsletterSvc := newsletter.NewService(db)
	broadcaster := newsletter.NewBroadcaster(newsletterSvc, mailer, taskSvc, a.logger, siteName, siteURL, cfg.Broadcast.Concurrency)
	newsletter.NewHandler(newsletterSvc, broadcaster, cfg.Broadcast.Token).RegisterRoutes(api, authMW)

	// Ingestion
	ingestSvc := ingest.NewService(db, cfg.Ingest, taskSvc, a.logger)
	ingest.NewHandler(ingestSvc).RegisterRoutes(api, authMW)

	// Analytics
	analytics.NewHandler(analyticsSvc).RegisterRoutes(api, authMW)

	// Media
	storage := media.NewStorage(cfg.S3, cfg.Paths.Static, siteURL)
	media.NewHandler(media.NewService(db, storage)).RegisterRoutes(api, authMW)

	// Contact form
	contact.NewHandler(contact.NewService(mailer, cfg.Mail.OwnerTo, a.logger)).RegisterRoutes(api, authMW)

	// Scheduled job management (admin)
	api.GET("/jobs", authMW, func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	api.POST("/jobs/:name/run", authMW, func(c *gin.Context) {
		if err := a.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	})

	a.registerCronJobs(ingestSvc, analyticsSvc)
}

func httpCacheSkipPaths(apiPrefix string) []string {
	p := strings.TrimSuffix(strings.TrimSpace(apiPrefix), "/")
	if p == "" {
		p = "/api/v1"
	}
	return []string{
		p + "/uptime",
		p + "/clean_cache",
		p + "/analytics/*",
		p + "/subscribers/*",
		p + "/jobs",
		p + "/ingest",
		p + "/ingest/*",
	}
}
