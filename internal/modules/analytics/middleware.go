package analytics

import (
	"strings"

	"github.com/gin-gonic/gin"
)

var botUAKeywords = []string{
	"bot", "crawler", "spider", "headless", "wget", "curl",
	"python-requests", "go-http", "java/", "scrapy",
}

// Middleware records a view event for every successful, unauthenticated
// public GET under the API prefix. Bots, localhost traffic and the analytics
// endpoints themselves are skipped; the stored row carries only the hashed
// visitor id, never the raw address.
func Middleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // status code is only known after the handler ran

		if c.Request.Method != "GET" {
			return
		}
		rawPath := strings.TrimSpace(c.Request.URL.Path)
		if rawPath != "/api" && !strings.HasPrefix(rawPath, "/api/") {
			return
		}
		path := normalizeTrackedPath(rawPath)
		if strings.HasPrefix(path, "/analytics") || strings.HasPrefix(path, "/auth") {
			return
		}
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if isBotUA(c.GetHeader("User-Agent")) {
			return
		}
		// Admin traffic carries an Authorization header; the public site
		// never does.
		if c.GetHeader("Authorization") != "" {
			return
		}

		ip := strings.TrimSpace(c.ClientIP())
		if ip == "" || ip == "127.0.0.1" || ip == "localhost" || ip == "::1" {
			return
		}

		visitor := VisitorID(ip, c.GetHeader("User-Agent"))
		referer := c.GetHeader("Referer")
		go func() {
			_ = svc.RecordView(path, "", visitor, referer)
		}()
	}
}

// isBotUA reports whether the User-Agent string indicates a bot or crawler.
func isBotUA(ua string) bool {
	lower := strings.ToLower(ua)
	for _, kw := range botUAKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// normalizeTrackedPath strips the /api and optional /vN version prefix so
// stored paths stay stable across API version bumps.
func normalizeTrackedPath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" || p == "/api" {
		return "/"
	}
	p = strings.TrimPrefix(p, "/api")
	if strings.HasPrefix(p, "/v") {
		rest := p[2:]
		if slash := strings.IndexByte(rest, '/'); slash >= 0 {
			if isDigits(rest[:slash]) {
				p = rest[slash:]
			}
		} else if isDigits(rest) {
			return "/"
		}
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func isDigits(raw string) bool {
	if raw == "" {
		return false
	}
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
