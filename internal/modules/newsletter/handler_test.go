package newsletter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/testdb"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func sendRouter(t *testing.T) (*gin.Engine, *gorm.DB, *fakeMailer) {
	gin.SetMode(gin.TestMode)
	db := testdb.Open(t, &models.NewsletterModel{}, &models.SubscriberModel{}, &models.UserModel{}, &models.UserSession{})
	svc := NewService(db)
	mailer := &fakeMailer{}
	bc := NewBroadcaster(svc, mailer, nil, zap.NewNop(), "Techpress", "https://techpress.example", 2)

	r := gin.New()
	NewHandler(svc, bc, "trigger-secret").RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) {})
	return r, db, mailer
}

func postSend(r *gin.Engine, token, body string) *httptest.ResponseRecorder {
	url := "/api/v1/newsletters/send"
	if token != "" {
		url += "?token=" + token
	}
	req := httptest.NewRequest("POST", url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendBySlugRequiresAuthorization(t *testing.T) {
	r, _, mailer := sendRouter(t)

	w := postSend(r, "", `{"slug":"weekly"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postSend(r, "wrong-token", `{"slug":"weekly"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, mailer.sent)
}

func TestSendBySlugUnknownSlug(t *testing.T) {
	r, _, _ := sendRouter(t)

	w := postSend(r, "trigger-secret", `{"slug":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendBySlugBroadcasts(t *testing.T) {
	r, db, mailer := sendRouter(t)

	require.NoError(t, db.Create(&models.SubscriberModel{Email: "reader@example.com", Status: models.SubscriberActive}).Error)
	issue := models.NewsletterModel{Subject: "Weekly Issue", Slug: "weekly", Content: "<p>hello</p>", Status: models.NewsletterDraft}
	require.NoError(t, db.Create(&issue).Error)

	w := postSend(r, "trigger-secret", `{"slug":"weekly"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"reader@example.com"}, mailer.sent[0].To)

	var stored models.NewsletterModel
	require.NoError(t, db.First(&stored, "slug = ?", "weekly").Error)
	assert.Equal(t, models.NewsletterSent, stored.Status)

	// Re-triggering the same slug must not double-send.
	w = postSend(r, "trigger-secret", `{"slug":"weekly"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, mailer.sent, 1)
}
