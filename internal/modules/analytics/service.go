package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/techpress/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RetentionWindow is how long raw events are kept before the cleanup job
// removes them.
const RetentionWindow = 180 * 24 * time.Hour

// TopContentEntry is one row of the top-content report.
type TopContentEntry struct {
	PostID         string `json:"post_id"`
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Views          int64  `json:"views"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// VisitorID hashes ip and user agent into a stable anonymous identifier. Raw
// addresses are never stored.
func VisitorID(ip, userAgent string) string {
	sum := sha256.Sum256([]byte(ip + "\x00" + userAgent))
	return hex.EncodeToString(sum[:])[:16]
}

// RecordView stores one page view event.
func (s *Service) RecordView(path, postID, visitorID, referer string) error {
	return s.db.Create(&models.AnalyticsEventModel{
		Type:      models.EventView,
		Path:      path,
		PostID:    postID,
		VisitorID: visitorID,
		Referer:   referer,
		Timestamp: time.Now(),
	}).Error
}

// RecordOpen stores one newsletter open event, reported by the tracking pixel.
func (s *Service) RecordOpen(newsletterID, recipientID string) error {
	return s.db.Create(&models.AnalyticsEventModel{
		Type:         models.EventOpen,
		NewsletterID: newsletterID,
		RecipientID:  recipientID,
		Timestamp:    time.Now(),
	}).Error
}

// ViewsSeries returns zero-filled daily view counts for an n-day window.
func (s *Service) ViewsSeries(days int) ([]DayCount, error) {
	days = windowDays(days)
	now := time.Now()

	var timestamps []time.Time
	err := s.db.Model(&models.AnalyticsEventModel{}).
		Where("type = ? AND timestamp >= ?", models.EventView, windowStart(now, days)).
		Pluck("timestamp", &timestamps).Error
	if err != nil {
		return nil, err
	}
	return bucketDaily(timestamps, days, now), nil
}

// OpensSeries returns zero-filled daily newsletter-open counts.
func (s *Service) OpensSeries(days int) ([]DayCount, error) {
	days = windowDays(days)
	now := time.Now()

	var timestamps []time.Time
	err := s.db.Model(&models.AnalyticsEventModel{}).
		Where("type = ? AND timestamp >= ?", models.EventOpen, windowStart(now, days)).
		Pluck("timestamp", &timestamps).Error
	if err != nil {
		return nil, err
	}
	return bucketDaily(timestamps, days, now), nil
}

// TopContent ranks posts by views inside the window, with unique visitor
// counts alongside.
func (s *Service) TopContent(days, limit int) ([]TopContentEntry, error) {
	days = windowDays(days)
	if limit <= 0 {
		limit = 10
	}
	start := windowStart(time.Now(), days)

	var entries []TopContentEntry
	err := s.db.Model(&models.AnalyticsEventModel{}).
		Select("analytics_events.post_id, posts.title, posts.slug, COUNT(*) AS views, COUNT(DISTINCT analytics_events.visitor_id) AS unique_visitors").
		Joins("JOIN posts ON posts.id = analytics_events.post_id").
		Where("analytics_events.type = ? AND analytics_events.post_id <> '' AND analytics_events.timestamp >= ?", models.EventView, start).
		Group("analytics_events.post_id, posts.title, posts.slug").
		Order("views DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// SubscriberGrowth returns zero-filled daily signup counts.
func (s *Service) SubscriberGrowth(days int) ([]DayCount, error) {
	days = windowDays(days)
	now := time.Now()

	var timestamps []time.Time
	err := s.db.Model(&models.SubscriberModel{}).
		Where("created_at >= ?", windowStart(now, days)).
		Pluck("created_at", &timestamps).Error
	if err != nil {
		return nil, err
	}
	return bucketDaily(timestamps, days, now), nil
}

// NewsletterOpenStats returns total and unique opens for one newsletter.
func (s *Service) NewsletterOpenStats(newsletterID string) (total, unique int64, err error) {
	err = s.db.Model(&models.AnalyticsEventModel{}).
		Where("type = ? AND newsletter_id = ?", models.EventOpen, newsletterID).
		Count(&total).Error
	if err != nil {
		return
	}
	err = s.db.Model(&models.AnalyticsEventModel{}).
		Where("type = ? AND newsletter_id = ?", models.EventOpen, newsletterID).
		Distinct("recipient_id").
		Count(&unique).Error
	return
}

// Cleanup hard-deletes events older than the retention window. Runs daily
// from the scheduler.
func (s *Service) Cleanup() error {
	cutoff := time.Now().Add(-RetentionWindow)
	res := s.db.Unscoped().
		Where("timestamp < ?", cutoff).
		Delete(&models.AnalyticsEventModel{})
	if res.Error != nil {
		return res.Error
	}
	if s.log != nil && res.RowsAffected > 0 {
		s.log.Info("pruned analytics events",
			zap.Int64("deleted", res.RowsAffected),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}
