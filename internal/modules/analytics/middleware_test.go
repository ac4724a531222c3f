package analytics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/testdb"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func trackedRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := testdb.Open(t, &models.AnalyticsEventModel{})
	svc := NewService(db, zap.NewNop())

	r := gin.New()
	r.Use(Middleware(svc))
	r.GET("/api/v1/posts", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/api/v1/missing", func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"ok": false}) })
	r.POST("/api/v1/posts", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r, db
}

func countEvents(db *gorm.DB) int64 {
	var n int64
	db.Model(&models.AnalyticsEventModel{}).Count(&n)
	return n
}

func TestMiddlewareRecordsPublicGet(t *testing.T) {
	r, db := trackedRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/posts", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	r.ServeHTTP(httptest.NewRecorder(), req)

	// The insert runs off the request goroutine.
	assert.Eventually(t, func() bool { return countEvents(db) == 1 }, 2*time.Second, 10*time.Millisecond)

	var ev models.AnalyticsEventModel
	require.NoError(t, db.First(&ev).Error)
	assert.Equal(t, "/posts", ev.Path)
	assert.NotEmpty(t, ev.VisitorID)
	assert.NotContains(t, ev.VisitorID, "192.0.2.1")
}

func TestMiddlewareSkips(t *testing.T) {
	cases := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
	}{
		{"bot user agent", "GET", "/api/v1/posts", map[string]string{"User-Agent": "Googlebot/2.1"}},
		{"authed traffic", "GET", "/api/v1/posts", map[string]string{"User-Agent": "Mozilla/5.0", "Authorization": "Bearer x"}},
		{"non-2xx response", "GET", "/api/v1/missing", map[string]string{"User-Agent": "Mozilla/5.0"}},
		{"writes", "POST", "/api/v1/posts", map[string]string{"User-Agent": "Mozilla/5.0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, db := trackedRouter(t)
			req := httptest.NewRequest(tc.method, tc.path, nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)

			time.Sleep(50 * time.Millisecond)
			assert.Zero(t, countEvents(db))
		})
	}
}

func TestIsBotUA(t *testing.T) {
	assert.True(t, isBotUA("Mozilla/5.0 (compatible; Googlebot/2.1)"))
	assert.True(t, isBotUA("curl/8.4.0"))
	assert.True(t, isBotUA("python-requests/2.31"))
	assert.False(t, isBotUA("Mozilla/5.0 (Windows NT 10.0; Win64; x64)"))
	assert.False(t, isBotUA(""))
}

func TestNormalizeTrackedPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/api/v1/posts", "/posts"},
		{"/api/v2/posts/slug/x", "/posts/slug/x"},
		{"/api/posts", "/posts"},
		{"/api/v1", "/"},
		{"/api", "/"},
		{"/api/view/abc", "/view/abc"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeTrackedPath(tc.in), "path %q", tc.in)
	}
}
