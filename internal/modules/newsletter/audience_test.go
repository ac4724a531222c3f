package newsletter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/techpress/core/internal/models"
)

func sub(id, email, status, source string, segments ...string) models.SubscriberModel {
	s := models.SubscriberModel{
		Email:       email,
		Status:      status,
		Source:      source,
		Preferences: models.SubscriberPreferences{Segments: segments},
	}
	s.ID = id
	return s
}

func TestMatchesTarget(t *testing.T) {
	active := sub("s1", "a@example.com", models.SubscriberActive, "homepage", "ai", "hardware")
	unsubscribed := sub("s2", "b@example.com", models.SubscriberUnsubscribed, "homepage", "ai")

	tests := []struct {
		name   string
		sub    models.SubscriberModel
		target models.TargetConfig
		want   bool
	}{
		{"all matches active", active, models.TargetConfig{Type: models.TargetAll}, true},
		{"empty type behaves like all", active, models.TargetConfig{}, true},
		{"all never matches unsubscribed", unsubscribed, models.TargetConfig{Type: models.TargetAll}, false},
		{"manual matches listed id", active, models.TargetConfig{Type: models.TargetManual, IDs: []string{"s1"}}, true},
		{"manual skips unlisted id", active, models.TargetConfig{Type: models.TargetManual, IDs: []string{"s9"}}, false},
		{
			"filter source alone",
			active,
			models.TargetConfig{Type: models.TargetFilter, Sources: []string{"homepage", "footer"}},
			true,
		},
		{
			"filter wrong source",
			active,
			models.TargetConfig{Type: models.TargetFilter, Sources: []string{"footer"}},
			false,
		},
		{
			"filter segment alone",
			active,
			models.TargetConfig{Type: models.TargetFilter, Tags: []string{"hardware"}},
			true,
		},
		{
			"both facets must hold",
			active,
			models.TargetConfig{Type: models.TargetFilter, Sources: []string{"footer"}, Tags: []string{"ai"}},
			false,
		},
		{
			"both facets hold together",
			active,
			models.TargetConfig{Type: models.TargetFilter, Sources: []string{"homepage"}, Tags: []string{"ai"}},
			true,
		},
		{
			"empty facets place no constraint",
			active,
			models.TargetConfig{Type: models.TargetFilter},
			true,
		},
		{"unknown type matches nobody", active, models.TargetConfig{Type: "cohort"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesTarget(&tt.sub, tt.target))
		})
	}
}

func TestFilterAudience(t *testing.T) {
	subs := []models.SubscriberModel{
		sub("s1", "a@example.com", models.SubscriberActive, "homepage", "ai"),
		sub("s2", "b@example.com", models.SubscriberActive, "footer"),
		sub("s3", "c@example.com", models.SubscriberBounced, "homepage", "ai"),
	}
	got := filterAudience(subs, models.TargetConfig{Type: models.TargetFilter, Sources: []string{"homepage"}})
	assert.Len(t, got, 1)
	assert.Equal(t, "a@example.com", got[0].Email)
}
