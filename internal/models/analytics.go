package models

import "time"

// Analytics event types.
const (
	EventView = "view"
	EventOpen = "open"
)

// AnalyticsEventModel is one raw view/open event. Aggregation endpoints scan
// these rows inside a requested window; there is no pre-aggregation.
type AnalyticsEventModel struct {
	Base
	Type         string    `json:"type"          gorm:"index;not null"` // "view" | "open"
	Path         string    `json:"path"          gorm:"index"`
	PostID       string    `json:"post_id"       gorm:"type:char(36);index"`
	NewsletterID string    `json:"newsletter_id" gorm:"type:char(36);index"`
	VisitorID    string    `json:"visitor_id"    gorm:"index"` // hashed ip+ua
	RecipientID  string    `json:"recipient_id"  gorm:"type:char(36);index"`
	Referer      string    `json:"referer"`
	Timestamp    time.Time `json:"timestamp"     gorm:"index;index:idx_events_ts_type,composite:1"`
}

func (AnalyticsEventModel) TableName() string { return "analytics_events" }
