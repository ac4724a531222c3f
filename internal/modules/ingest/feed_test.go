package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
  <title>Tech & Gadgets</title>
  <link>https://news.example.com</link>
  <item>
    <title>Chipmaker Q&A session</title>
    <link>https://www.theverge.com/2026/8/29/chipmaker-q-a-session</link>
    <guid>https://www.theverge.com/?p=1001</guid>
    <description><![CDATA[<p>The chipmaker answered <b>questions</b> today.</p>]]></description>
    <media:content url="https://cdn.example.com/chip.jpg" medium="image"/>
    <category>Hardware</category>
    <category> hardware </category>
    <category>Semiconductors</category>
  </item>
  <item>
    <title>Battery breakthrough</title>
    <link>https://arstechnica.com/science/2026/battery-breakthrough/</link>
    <guid>tag:arstechnica.com,2026:2002</guid>
    <description>Dense cells &amp; longer life</description>
    <content:encoded><![CDATA[<p>Full story with <img src="https://cdn.ars.example/batt.png"> inline.</p>]]></content:encoded>
  </item>
  <item>
    <title>No media here</title>
    <link>https://example.org/</link>
    <guid>guid-3</guid>
    <description>plain text only</description>
  </item>
</channel>
</rss>`

func TestParseFeedSanitizesBareAmpersands(t *testing.T) {
	items, channelLink, err := parseFeed([]byte(sampleFeed), 0)
	require.NoError(t, err)
	assert.Equal(t, "https://news.example.com", channelLink)
	require.Len(t, items, 3)
	assert.Equal(t, "Chipmaker Q&A session", items[0].Title)
}

func TestParseFeedCapsItems(t *testing.T) {
	items, _, err := parseFeed([]byte(sampleFeed), 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestNormalizeItemSlugFromURL(t *testing.T) {
	items, _, err := parseFeed([]byte(sampleFeed), 0)
	require.NoError(t, err)

	got := normalizeItem(items[0], "https://cdn.example.com/fallback.png")
	assert.Equal(t, "chipmaker-q-a-session", got.Slug)
	assert.Equal(t, "https://www.theverge.com/?p=1001", got.GUID)
	assert.Equal(t, "Theverge", got.SourceName)
	assert.Equal(t, "https://cdn.example.com/chip.jpg", got.Image)
	assert.Equal(t, "The chipmaker answered questions today.", got.Excerpt)
	assert.Equal(t, []string{"Hardware", "Semiconductors"}, got.Keywords)
}

func TestNormalizeItemImageFromInlineImg(t *testing.T) {
	items, _, err := parseFeed([]byte(sampleFeed), 0)
	require.NoError(t, err)

	got := normalizeItem(items[1], "https://cdn.example.com/fallback.png")
	assert.Equal(t, "battery-breakthrough", got.Slug)
	assert.Equal(t, "https://cdn.ars.example/batt.png", got.Image)
	assert.Equal(t, "Arstechnica", got.SourceName)
	assert.Contains(t, got.HTML, "Full story")
}

func TestNormalizeItemPlaceholderImage(t *testing.T) {
	items, _, err := parseFeed([]byte(sampleFeed), 0)
	require.NoError(t, err)

	got := normalizeItem(items[2], "https://cdn.example.com/fallback.png")
	assert.Equal(t, "https://cdn.example.com/fallback.png", got.Image)
}

// Two sources can run the same headline; the GUID digest keeps their slugs
// distinct when the article URL has no usable path segment.
func TestDeriveItemSlugDistinctByGUID(t *testing.T) {
	a := deriveItemSlug("https://example.com/", "Big Launch Day", "guid-aaa")
	b := deriveItemSlug("https://example.org/", "Big Launch Day", "guid-bbb")

	assert.True(t, strings.HasPrefix(a, "big-launch-day-"))
	assert.True(t, strings.HasPrefix(b, "big-launch-day-"))
	assert.NotEqual(t, a, b)
}

func TestDeriveItemSlugGuidOnly(t *testing.T) {
	got := deriveItemSlug("", "!!!", "guid-xyz")
	assert.Len(t, got, 8)
}

func TestPublisherOf(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://www.theverge.com/2026/article", "Theverge"},
		{"https://arstechnica.com/x", "Arstechnica"},
		{"not a url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, publisherOf(tt.link), tt.link)
	}
}

func TestExcerptOfTruncatesOnWordBoundary(t *testing.T) {
	long := strings.Repeat("lorem ipsum ", 40)
	got := excerptOf("<p>"+long+"</p>", 50)
	assert.LessOrEqual(t, len(got), 55)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.False(t, strings.Contains(got, "<p>"))
}

func TestExcerptOfNeverSplitsRunes(t *testing.T) {
	// Two bytes per rune, no spaces, and a limit landing mid-rune.
	text := strings.Repeat("é", 40)
	got := excerptOf(text, 33)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, strings.Repeat("é", 16)+"…", got)
}

func TestStartsEntity(t *testing.T) {
	assert.True(t, startsEntity([]byte("amp; rest")))
	assert.True(t, startsEntity([]byte("#38;")))
	assert.True(t, startsEntity([]byte("#x26;")))
	assert.False(t, startsEntity([]byte(" A sess")))
	assert.False(t, startsEntity([]byte(";")))
	assert.False(t, startsEntity([]byte("#;")))
}
