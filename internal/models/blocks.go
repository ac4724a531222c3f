package models

import (
	"encoding/json"
	"fmt"
)

// Homepage block kinds. The set is closed; decoding an unknown kind fails.
const (
	BlockHero        = "hero"
	BlockFeatureGrid = "feature_grid"
	BlockTimeline    = "timeline"
	BlockSmartFeed   = "smart_feed"
)

// Footer block kinds.
const (
	BlockText       = "text"
	BlockNewsletter = "newsletter"
	BlockMenu       = "menu"
	BlockSocial     = "social"
)

// NavItem is one entry of the navigation menu or a footer menu block.
type NavItem struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SocialLink is one entry of a footer social block.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// HeroData is the payload of a hero block.
type HeroData struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading,omitempty"`
	Image      string `json:"image,omitempty"`
	CTALabel   string `json:"cta_label,omitempty"`
	CTAURL     string `json:"cta_url,omitempty"`
}

// FeatureGridData pins a hand-picked set of posts into a grid.
type FeatureGridData struct {
	Title     string   `json:"title,omitempty"`
	Columns   int      `json:"columns,omitempty"`
	PostSlugs []string `json:"post_slugs,omitempty"`
}

// TimelineEntry is one row of a timeline block.
type TimelineEntry struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// TimelineData is the payload of a timeline block.
type TimelineData struct {
	Title   string          `json:"title,omitempty"`
	Entries []TimelineEntry `json:"entries"`
}

// SmartFeedData describes a live post query rendered as a feed.
// Source selects the query: "latest", "category" or "tag"; Ref carries the
// category/tag slug when the source needs one.
type SmartFeedData struct {
	Title  string `json:"title,omitempty"`
	Source string `json:"source"`
	Ref    string `json:"ref,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// TextBlockData is a free-form footer text block.
type TextBlockData struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

// NewsletterBlockData renders the footer signup form.
type NewsletterBlockData struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ButtonLabel string `json:"button_label,omitempty"`
}

// MenuBlockData is a footer link list.
type MenuBlockData struct {
	Title string    `json:"title,omitempty"`
	Items []NavItem `json:"items"`
}

// SocialBlockData is a footer social link list.
type SocialBlockData struct {
	Title string       `json:"title,omitempty"`
	Links []SocialLink `json:"links"`
}

// Block is one typed unit of homepage or footer content. Data holds the
// variant payload for Type; array position is display order.
type Block struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Enabled bool            `json:"enabled"`
	Data    json.RawMessage `json:"data"`
}

type rawBlock struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Enabled *bool           `json:"enabled"`
	Data    json.RawMessage `json:"data"`
}

// UnmarshalJSON defaults enabled to true when the flag is absent.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw rawBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.ID = raw.ID
	b.Type = raw.Type
	b.Enabled = raw.Enabled == nil || *raw.Enabled
	b.Data = raw.Data
	return nil
}

// homepageBlockDecoders maps each homepage block kind to a strict decode of
// its payload. Unknown fields are tolerated; malformed shapes are not.
var homepageBlockDecoders = map[string]func(json.RawMessage) (interface{}, error){
	BlockHero:        decodeInto[HeroData],
	BlockFeatureGrid: decodeInto[FeatureGridData],
	BlockTimeline:    decodeInto[TimelineData],
	BlockSmartFeed:   decodeInto[SmartFeedData],
}

var footerBlockDecoders = map[string]func(json.RawMessage) (interface{}, error){
	BlockText:       decodeInto[TextBlockData],
	BlockNewsletter: decodeInto[NewsletterBlockData],
	BlockMenu:       decodeInto[MenuBlockData],
	BlockSocial:     decodeInto[SocialBlockData],
}

func decodeInto[T any](raw json.RawMessage) (interface{}, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeHomepageData returns the typed payload for a homepage block.
func (b Block) DecodeHomepageData() (interface{}, error) {
	dec, ok := homepageBlockDecoders[b.Type]
	if !ok {
		return nil, fmt.Errorf("unknown homepage block type %q", b.Type)
	}
	return dec(b.Data)
}

// DecodeFooterData returns the typed payload for a footer block.
func (b Block) DecodeFooterData() (interface{}, error) {
	dec, ok := footerBlockDecoders[b.Type]
	if !ok {
		return nil, fmt.Errorf("unknown footer block type %q", b.Type)
	}
	return dec(b.Data)
}

// ValidateHomepage checks a block is usable on the homepage surface.
func (b Block) ValidateHomepage() error {
	if b.ID == "" {
		return fmt.Errorf("homepage block missing id")
	}
	_, err := b.DecodeHomepageData()
	return err
}

// ValidateFooter checks a block is usable in a footer column.
func (b Block) ValidateFooter() error {
	if b.ID == "" {
		return fmt.Errorf("footer block missing id")
	}
	_, err := b.DecodeFooterData()
	return err
}

// HomepageLayout is the ordered block list of the homepage.
type HomepageLayout []Block

// FooterConfig holds the three fixed footer columns.
type FooterConfig struct {
	Column1 []Block `json:"column1"`
	Column2 []Block `json:"column2"`
	Column3 []Block `json:"column3"`
}

// Columns returns the three columns in order.
func (f *FooterConfig) Columns() [][]Block {
	return [][]Block{f.Column1, f.Column2, f.Column3}
}

// SetColumn replaces one column by index (0-2).
func (f *FooterConfig) SetColumn(idx int, blocks []Block) error {
	switch idx {
	case 0:
		f.Column1 = blocks
	case 1:
		f.Column2 = blocks
	case 2:
		f.Column3 = blocks
	default:
		return fmt.Errorf("footer column index %d out of range", idx)
	}
	return nil
}
