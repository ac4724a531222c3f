package models

// MediaItemModel records an uploaded asset (post images, media library).
type MediaItemModel struct {
	Base
	Filename string `json:"filename" gorm:"not null"`
	URL      string `json:"url"      gorm:"not null"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	AltText  string `json:"alt_text"`
}

func (MediaItemModel) TableName() string { return "media_items" }
