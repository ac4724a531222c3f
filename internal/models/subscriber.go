package models

// Subscriber status values.
const (
	SubscriberActive       = "active"
	SubscriberBounced      = "bounced"
	SubscriberUnsubscribed = "unsubscribed"
)

// SubscriberPreferences carries opt-in segments used by filtered sends.
type SubscriberPreferences struct {
	Segments []string `json:"segments,omitempty"`
}

// SubscriberModel is a newsletter recipient.
type SubscriberModel struct {
	Base
	Email       string                `json:"email"       gorm:"uniqueIndex;not null"`
	Status      string                `json:"status"      gorm:"default:active;index"`
	Source      string                `json:"source"      gorm:"index"` // where the signup came from
	Preferences SubscriberPreferences `json:"preferences" gorm:"type:longtext;serializer:json"`
}

func (SubscriberModel) TableName() string { return "subscribers" }

// IsActive reports whether the subscriber should receive sends.
func (s SubscriberModel) IsActive() bool { return s.Status == SubscriberActive }
