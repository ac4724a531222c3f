package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/techpress/core/internal/pkg/slug"
)

// rssFeed maps the subset of RSS 2.0 plus the itunes and media namespaces
// that source feeds actually use.
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Link  string    `xml:"link"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string         `xml:"title"`
	Link        string         `xml:"link"`
	GUID        string         `xml:"guid"`
	Description string         `xml:"description"`
	Encoded     string         `xml:"encoded"` // content:encoded
	PubDate     string         `xml:"pubDate"`
	ItunesImage itunesImage    `xml:"image"`
	Media       []mediaContent `xml:"content"`
	Thumbnails  []mediaContent `xml:"thumbnail"`
	Enclosure   rssEnclosure   `xml:"enclosure"`
	Categories  []string       `xml:"category"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
	Text string `xml:",chardata"`
}

type mediaContent struct {
	URL    string `xml:"url,attr"`
	Medium string `xml:"medium,attr"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// feedItem is a normalized article candidate extracted from a feed.
type feedItem struct {
	Title      string
	Slug       string
	GUID       string
	Link       string
	Excerpt    string
	HTML       string
	Image      string
	SourceName string
	Keywords   []string
}

var (
	imgTagPattern  = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
)

// sanitizeFeedXML escapes bare ampersands so the strict XML decoder accepts
// the encoding problems real-world feeds ship with. Well-formed entities
// pass through untouched.
func sanitizeFeedXML(raw []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '&' {
			out.WriteByte(c)
			continue
		}
		if startsEntity(raw[i+1:]) {
			out.WriteByte(c)
		} else {
			out.WriteString("&amp;")
		}
	}
	return out.Bytes()
}

// startsEntity reports whether rest begins with the body of a valid XML
// entity reference, e.g. "amp;", "#38;" or "#x26;".
func startsEntity(rest []byte) bool {
	limit := len(rest)
	if limit > 10 {
		limit = 10
	}
	semi := bytes.IndexByte(rest[:limit], ';')
	if semi <= 0 {
		return false
	}
	body := rest[:semi]
	if body[0] == '#' {
		digits := body[1:]
		hex := false
		if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
			hex = true
			digits = digits[1:]
		}
		if len(digits) == 0 {
			return false
		}
		for _, d := range digits {
			switch {
			case d >= '0' && d <= '9':
			case hex && (d >= 'a' && d <= 'f' || d >= 'A' && d <= 'F'):
			default:
				return false
			}
		}
		return true
	}
	for _, d := range body {
		if !(d >= 'a' && d <= 'z' || d >= 'A' && d <= 'Z') {
			return false
		}
	}
	return true
}

func parseFeed(raw []byte, maxItems int) ([]rssItem, string, error) {
	var feed rssFeed
	if err := xml.Unmarshal(sanitizeFeedXML(raw), &feed); err != nil {
		return nil, "", fmt.Errorf("parse feed: %w", err)
	}
	items := feed.Channel.Items
	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, feed.Channel.Link, nil
}

// normalizeItem turns one raw feed entry into an article candidate.
func normalizeItem(item rssItem, placeholderImage string) feedItem {
	guid := strings.TrimSpace(item.GUID)
	if guid == "" {
		guid = strings.TrimSpace(item.Link)
	}

	html := item.Encoded
	if strings.TrimSpace(html) == "" {
		html = item.Description
	}

	return feedItem{
		Title:      strings.TrimSpace(item.Title),
		Slug:       deriveItemSlug(item.Link, item.Title, guid),
		GUID:       guid,
		Link:       strings.TrimSpace(item.Link),
		Excerpt:    excerptOf(item.Description, 280),
		HTML:       html,
		Image:      pickImage(item, placeholderImage),
		SourceName: publisherOf(item.Link),
		Keywords:   keywordsOf(item.Categories),
	}
}

// keywordsOf cleans feed category tags: trimmed, de-duplicated
// case-insensitively, original casing of the first occurrence kept.
func keywordsOf(categories []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		out = append(out, c)
	}
	return out
}

// deriveItemSlug prefers the last path segment of the article URL. When the
// URL gives nothing usable the title is slugified and an 8-char GUID digest
// is appended, so two sources publishing the same headline stay distinct.
func deriveItemSlug(link, title, guid string) string {
	if u, err := url.Parse(strings.TrimSpace(link)); err == nil {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segments) > 0 {
			if candidate := slug.Normalize(segments[len(segments)-1]); candidate != "" {
				return candidate
			}
		}
	}
	base := slug.Normalize(title)
	digest := guidDigest(guid)
	if base == "" {
		return digest
	}
	return base + "-" + digest
}

func guidDigest(guid string) string {
	sum := sha256.Sum256([]byte(guid))
	return hex.EncodeToString(sum[:])[:8]
}

// pickImage walks the image sources in priority order: itunes image, media
// content, media thumbnail, enclosure, first inline <img>, then the
// configured placeholder.
func pickImage(item rssItem, placeholder string) string {
	if href := strings.TrimSpace(item.ItunesImage.Href); href != "" {
		return href
	}
	if text := strings.TrimSpace(item.ItunesImage.Text); looksLikeImageURL(text) {
		return text
	}
	for _, m := range item.Media {
		if m.URL != "" && (m.Medium == "" || m.Medium == "image") {
			return m.URL
		}
	}
	for _, m := range item.Thumbnails {
		if m.URL != "" {
			return m.URL
		}
	}
	if item.Enclosure.URL != "" && strings.HasPrefix(item.Enclosure.Type, "image/") {
		return item.Enclosure.URL
	}
	body := item.Encoded
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}
	if m := imgTagPattern.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return placeholder
}

func looksLikeImageURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// publisherOf derives a display name from the article domain:
// "www.theverge.com" becomes "Theverge".
func publisherOf(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	parts := strings.Split(host, ".")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	name := parts[0]
	return strings.ToUpper(name[:1]) + name[1:]
}

func excerptOf(description string, limit int) string {
	text := htmlTagPattern.ReplaceAllString(description, "")
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= limit {
		return text
	}
	// Back off to a rune boundary so a multi-byte character is never split.
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	cut := text[:limit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
