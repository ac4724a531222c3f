package newsletter

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/mail"
)

type fakeMailer struct {
	mu       sync.Mutex
	sent     []mail.Message
	failAddr string
}

func (f *fakeMailer) Send(msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, to := range msg.To {
		if to == f.failAddr {
			return fmt.Errorf("mailbox unavailable")
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestFanOutPartialFailure(t *testing.T) {
	mailer := &fakeMailer{failAddr: "b@example.com"}
	bc := NewBroadcaster(nil, mailer, nil, nil, "Techpress", "https://techpress.example", 2)

	n := &models.NewsletterModel{Subject: "Weekly Issue", Content: "<p>hello</p>"}
	n.ID = "n1"

	audience := []models.SubscriberModel{
		sub("s1", "a@example.com", models.SubscriberActive, "homepage"),
		sub("s2", "b@example.com", models.SubscriberActive, "homepage"),
		sub("s3", "c@example.com", models.SubscriberActive, "footer"),
	}

	report := bc.fanOut(n, audience)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Failed)

	// results keep audience order regardless of goroutine scheduling
	assert.Equal(t, "a@example.com", report.Results[0].Email)
	assert.True(t, report.Results[0].Sent)
	assert.False(t, report.Results[1].Sent)
	assert.Contains(t, report.Results[1].Error, "mailbox unavailable")
	assert.True(t, report.Results[2].Sent)
}

func TestFanOutRendersUnsubscribeLink(t *testing.T) {
	mailer := &fakeMailer{}
	bc := NewBroadcaster(nil, mailer, nil, nil, "Techpress", "https://techpress.example", 1)

	n := &models.NewsletterModel{Subject: "Issue", Content: "<p>body</p>"}
	n.ID = "n2"

	report := bc.fanOut(n, []models.SubscriberModel{
		sub("s1", "a@example.com", models.SubscriberActive, "homepage"),
	})

	assert.Equal(t, 1, report.Sent)
	assert.Len(t, mailer.sent, 1)
	assert.True(t, strings.Contains(mailer.sent[0].HTML, "/subscribers/s1/unsubscribe"))
}

func TestFanOutEmptyAudience(t *testing.T) {
	mailer := &fakeMailer{}
	bc := NewBroadcaster(nil, mailer, nil, nil, "Techpress", "https://techpress.example", 4)

	n := &models.NewsletterModel{Subject: "Issue"}
	report := bc.fanOut(n, nil)

	assert.Zero(t, report.Total)
	assert.Zero(t, report.Sent)
	assert.Empty(t, mailer.sent)
}
