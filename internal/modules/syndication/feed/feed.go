package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/modules/settings"
	"gorm.io/gorm"
)

// RegisterRoutes mounts RSS and Atom feed endpoints.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, settingsSvc *settings.Service) {
	rg.GET("/feed", func(c *gin.Context) {
		feedType := c.DefaultQuery("type", "rss") // rss | atom
		renderFeed(c, db, settingsSvc, feedType)
	})
	rg.GET("/feed.xml", func(c *gin.Context) {
		renderFeed(c, db, settingsSvc, "rss")
	})
	rg.GET("/atom.xml", func(c *gin.Context) {
		renderFeed(c, db, settingsSvc, "atom")
	})
}

type feedItem struct {
	Title   string
	Link    string
	GUID    string
	PubDate time.Time
	Content string
}

func renderFeed(c *gin.Context, db *gorm.DB, settingsSvc *settings.Service, feedType string) {
	site, err := settingsSvc.Get()
	if err != nil {
		c.String(500, "settings error")
		return
	}

	var posts []models.PostModel
	db.Where("status = ?", models.PostStatusPublished).
		Order("created_at DESC").
		Limit(20).
		Find(&posts)

	siteURL := strings.TrimSuffix(site.SiteURL, "/")
	items := make([]feedItem, len(posts))
	for i, p := range posts {
		items[i] = feedItem{
			Title:   p.Title,
			Link:    fmt.Sprintf("%s/posts/%s", siteURL, p.Slug),
			GUID:    p.ID,
			PubDate: p.CreatedAt,
			Content: p.Text,
		}
	}

	switch feedType {
	case "atom":
		c.Header("Content-Type", "application/atom+xml; charset=utf-8")
		c.String(200, buildAtom(site.SiteName, site.SiteDescription, siteURL, items))
	default:
		c.Header("Content-Type", "application/rss+xml; charset=utf-8")
		c.String(200, buildRSS(site.SiteName, site.SiteDescription, siteURL, items))
	}
}

func buildRSS(title, desc, link string, items []feedItem) string {
	var b strings.Builder
	now := time.Now().Format(time.RFC1123Z)
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>%s</title>
    <link>%s</link>
    <description>%s</description>
    <lastBuildDate>%s</lastBuildDate>
`, escapeXML(title), escapeXML(link), escapeXML(desc), now)

	for _, item := range items {
		fmt.Fprintf(&b, `    <item>
      <title>%s</title>
      <link>%s</link>
      <guid isPermaLink="false">%s</guid>
      <pubDate>%s</pubDate>
      <description><![CDATA[%s]]></description>
    </item>
`, escapeXML(item.Title), escapeXML(item.Link), item.GUID,
			item.PubDate.Format(time.RFC1123Z), item.Content)
	}

	b.WriteString(`  </channel>
</rss>`)
	return b.String()
}

func buildAtom(title, desc, link string, items []feedItem) string {
	var b strings.Builder
	now := time.Now().Format(time.RFC3339)
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>%s</title>
  <subtitle>%s</subtitle>
  <link href="%s"/>
  <updated>%s</updated>
  <id>%s</id>
`, escapeXML(title), escapeXML(desc), escapeXML(link), now, escapeXML(link))

	for _, item := range items {
		fmt.Fprintf(&b, `  <entry>
    <title>%s</title>
    <link href="%s"/>
    <id>%s</id>
    <updated>%s</updated>
    <content type="html"><![CDATA[%s]]></content>
  </entry>
`, escapeXML(item.Title), escapeXML(item.Link), item.GUID,
			item.PubDate.Format(time.RFC3339), item.Content)
	}

	b.WriteString(`</feed>`)
	return b.String()
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
