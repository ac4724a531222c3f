package newsletter

import (
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/mail"
	"github.com/techpress/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// RecipientResult is the delivery outcome for one subscriber.
type RecipientResult struct {
	SubscriberID string `json:"subscriber_id"`
	Email        string `json:"email"`
	Sent         bool   `json:"sent"`
	Error        string `json:"error,omitempty"`
}

// BroadcastReport summarizes one send run.
type BroadcastReport struct {
	NewsletterID string            `json:"newsletter_id"`
	Subject      string            `json:"subject"`
	Total        int               `json:"total"`
	Sent         int               `json:"sent"`
	Failed       int               `json:"failed"`
	Results      []RecipientResult `json:"results"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`
}

// Broadcaster fans a newsletter out to its audience with bounded concurrency.
type Broadcaster struct {
	svc         *Service
	mailer      mail.Mailer
	tasks       *taskqueue.Service
	log         *zap.Logger
	siteName    string
	siteURL     string
	concurrency int
}

func NewBroadcaster(svc *Service, mailer mail.Mailer, tasks *taskqueue.Service, log *zap.Logger, siteName, siteURL string, concurrency int) *Broadcaster {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Broadcaster{
		svc:         svc,
		mailer:      mailer,
		tasks:       tasks,
		log:         log,
		siteName:    siteName,
		siteURL:     siteURL,
		concurrency: concurrency,
	}
}

// Send delivers the newsletter to every matching subscriber. One failed
// recipient does not stop the run; the report carries per-recipient outcomes.
// The newsletter is marked sent when at least one delivery succeeded.
func (b *Broadcaster) Send(ctx context.Context, n *models.NewsletterModel) (*BroadcastReport, error) {
	if n.Status == models.NewsletterSent {
		return nil, errAlreadySent
	}
	audience, err := b.svc.Audience(n)
	if err != nil {
		return nil, err
	}

	var task *taskqueue.Task
	if b.tasks != nil {
		task, _ = b.tasks.Begin(ctx, "broadcast")
	}

	report := b.fanOut(n, audience)

	if report.Sent > 0 {
		now := report.FinishedAt
		err = b.svc.db.Model(n).Updates(map[string]interface{}{
			"status":  models.NewsletterSent,
			"sent_at": &now,
		}).Error
		if err == nil {
			n.Status = models.NewsletterSent
			n.SentAt = &now
		}
	}

	if task != nil {
		if err != nil {
			_ = b.tasks.Fail(ctx, task, err)
		} else {
			_ = b.tasks.Complete(ctx, task, report)
		}
	}
	if b.log != nil {
		b.log.Info("newsletter broadcast finished",
			zap.String("newsletter", n.ID),
			zap.Int("total", report.Total),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed),
		)
	}
	return report, err
}

func (b *Broadcaster) fanOut(n *models.NewsletterModel, audience []models.SubscriberModel) *BroadcastReport {
	report := &BroadcastReport{
		NewsletterID: n.ID,
		Subject:      n.Subject,
		Total:        len(audience),
		Results:      make([]RecipientResult, len(audience)),
		StartedAt:    time.Now(),
	}

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup
	for i := range audience {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			sub := &audience[i]
			res := RecipientResult{SubscriberID: sub.ID, Email: sub.Email}
			if err := b.deliver(n, sub); err != nil {
				res.Error = err.Error()
			} else {
				res.Sent = true
			}
			report.Results[i] = res
		}(i)
	}
	wg.Wait()

	for _, r := range report.Results {
		if r.Sent {
			report.Sent++
		} else {
			report.Failed++
		}
	}
	report.FinishedAt = time.Now()
	return report
}

func (b *Broadcaster) deliver(n *models.NewsletterModel, sub *models.SubscriberModel) error {
	html, err := mail.RenderNewsletter(mail.NewsletterData{
		Subject:        n.Subject,
		PreviewText:    n.PreviewText,
		Content:        template.HTML(n.Content),
		SiteName:       b.siteName,
		UnsubscribeURL: fmt.Sprintf("%s/api/v1/subscribers/%s/unsubscribe", b.siteURL, sub.ID),
	})
	if err != nil {
		return err
	}
	return b.mailer.Send(mail.Message{
		To:      []string{sub.Email},
		Subject: n.Subject,
		HTML:    html,
	})
}

// SendTest delivers a single copy to an arbitrary address without touching
// newsletter state.
func (b *Broadcaster) SendTest(n *models.NewsletterModel, email string) error {
	html, err := mail.RenderNewsletter(mail.NewsletterData{
		Subject:        "[TEST] " + n.Subject,
		PreviewText:    n.PreviewText,
		Content:        template.HTML(n.Content),
		SiteName:       b.siteName,
		UnsubscribeURL: b.siteURL,
	})
	if err != nil {
		return err
	}
	return b.mailer.Send(mail.Message{
		To:      []string{email},
		Subject: "[TEST] " + n.Subject,
		HTML:    html,
	})
}
