package ingest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/config"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/testdb"
	"go.uber.org/zap"
)

func testService(t *testing.T) *Service {
	db := testdb.Open(t,
		&models.CategoryModel{},
		&models.TagModel{},
		&models.ContentTypeModel{},
		&models.PostModel{},
	)
	return NewService(db, config.IngestRuntimeConfig{}, nil, zap.NewNop())
}

func TestCreatePostSuffixesTakenSlug(t *testing.T) {
	svc := testService(t)
	require.NoError(t, svc.db.Create(&models.PostModel{Title: "First take", Slug: "gpu-roundup"}).Error)

	created, err := svc.createPost(feedItem{
		Title: "Second take",
		Slug:  "gpu-roundup",
		GUID:  "tag:example.com,2026:2",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^gpu-roundup-\d+$`, created.Slug)

	// The earlier post keeps its slug untouched.
	var original models.PostModel
	require.NoError(t, svc.db.Where("slug = ?", "gpu-roundup").First(&original).Error)
	assert.Equal(t, "First take", original.Title)

	var count int64
	require.NoError(t, svc.db.Model(&models.PostModel{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestTriggerRunsIngestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer feedSrv.Close()

	db := testdb.Open(t,
		&models.CategoryModel{},
		&models.TagModel{},
		&models.ContentTypeModel{},
		&models.PostModel{},
	)
	svc := NewService(db, config.IngestRuntimeConfig{FeedURL: feedSrv.URL}, nil, zap.NewNop())

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/ingest", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Added   int  `json:"added"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Added)

	var count int64
	require.NoError(t, db.Model(&models.PostModel{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	// A second run dedups every item on its GUID.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("GET", "/api/v1/ingest", nil))
	require.Equal(t, http.StatusOK, w2.Code)
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &body))
	assert.Zero(t, body.Added)
}

func TestCreatePostKeepsFreeSlug(t *testing.T) {
	svc := testService(t)

	created, err := svc.createPost(feedItem{
		Title:      "GPU roundup",
		Slug:       "gpu-roundup",
		GUID:       "tag:example.com,2026:1",
		SourceName: "Example Wire",
		Keywords:   []string{"Hardware"},
	})
	require.NoError(t, err)
	assert.Equal(t, "gpu-roundup", created.Slug)
	assert.Equal(t, models.PostStatusPublished, created.Status)
	assert.Equal(t, models.StringArray{"Hardware"}, created.SourceKeywords)
}
