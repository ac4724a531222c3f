package subscriber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/techpress/core/internal/models"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"lowercases and trims", "  Reader@Example.COM ", "reader@example.com", false},
		{"plus addressing kept", "reader+news@example.com", "reader+news@example.com", false},
		{"missing domain", "reader@", "", true},
		{"missing at sign", "reader.example.com", "", true},
		{"empty", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeEmail(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, validStatus(models.SubscriberActive))
	assert.True(t, validStatus(models.SubscriberBounced))
	assert.True(t, validStatus(models.SubscriberUnsubscribed))
	assert.False(t, validStatus("pending"))
	assert.False(t, validStatus(""))
}
