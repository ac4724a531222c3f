package models

import "time"

// Newsletter status values.
const (
	NewsletterDraft = "draft"
	NewsletterSent  = "sent"
)

// Audience selection types.
const (
	TargetAll    = "all"
	TargetFilter = "filter"
	TargetManual = "manual"
)

// TargetConfig is the audience selection attached to a newsletter send.
type TargetConfig struct {
	Type    string   `json:"type"` // "all" | "filter" | "manual"
	Sources []string `json:"sources,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	IDs     []string `json:"ids,omitempty"`
}

// NewsletterModel is an email issue authored in the admin console.
type NewsletterModel struct {
	Base
	Subject      string       `json:"subject"       gorm:"not null"`
	Slug         string       `json:"slug"          gorm:"uniqueIndex;not null"`
	PreviewText  string       `json:"preview_text"`
	Content      string       `json:"content"       gorm:"type:longtext"`
	Status       string       `json:"status"        gorm:"default:draft;index"`
	TargetConfig TargetConfig `json:"target_config" gorm:"type:longtext;serializer:json"`
	SentAt       *time.Time   `json:"sent_at"`
}

func (NewsletterModel) TableName() string { return "newsletters" }
