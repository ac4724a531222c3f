package models

// SiteSettingsID is the fixed primary key of the singleton settings row.
const SiteSettingsID = 1

// CTAConfig configures the site-wide call-to-action banner.
type CTAConfig struct {
	Enabled     bool   `json:"enabled"`
	Heading     string `json:"heading,omitempty"`
	Description string `json:"description,omitempty"`
	ButtonLabel string `json:"button_label,omitempty"`
	ButtonURL   string `json:"button_url,omitempty"`
}

// SiteSettingsModel is the singleton row (id=1) holding global site
// configuration: identity, navigation, block layouts, SEO templates and CTA.
type SiteSettingsModel struct {
	ID        uint `json:"-" gorm:"primaryKey"`
	CreatedAt int64 `json:"-" gorm:"autoCreateTime"`
	UpdatedAt int64 `json:"-" gorm:"autoUpdateTime"`

	SiteName        string `json:"site_name"`
	SiteDescription string `json:"site_description"`
	SiteURL         string `json:"site_url"`

	NavigationMenu []NavItem      `json:"navigation_menu" gorm:"type:longtext;serializer:json"`
	HomepageLayout HomepageLayout `json:"homepage_layout" gorm:"type:longtext;serializer:json"`
	FooterConfig   FooterConfig   `json:"footer_config"   gorm:"type:longtext;serializer:json"`

	SeoTitleTemplate       string `json:"seo_title_template"`       // e.g. "%s | Techpress"
	SeoDescriptionTemplate string `json:"seo_description_template"`

	CTA CTAConfig `json:"cta" gorm:"type:longtext;serializer:json"`
}

func (SiteSettingsModel) TableName() string { return "site_settings" }
