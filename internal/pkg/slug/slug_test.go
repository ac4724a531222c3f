package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation collapses", "Q&A: The 2026 Roadmap!", "q-a-the-2026-roadmap"},
		{"leading and trailing separators trimmed", "  --Weekly Digest--  ", "weekly-digest"},
		{"unicode stripped", "Café résumé", "caf-r-sum"},
		{"digits kept", "Top 10 Posts", "top-10-posts"},
		{"empty", "", ""},
		{"only separators", "---///---", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Hello World", "Q&A session", "already-a-slug", "Tech & Gadgets Weekly"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestOrDerive(t *testing.T) {
	assert.Equal(t, "custom-slug", OrDerive("Custom Slug", "Fallback Title"))
	assert.Equal(t, "fallback-title", OrDerive("", "Fallback Title"))
	assert.Equal(t, "fallback-title", OrDerive("///", "Fallback Title"))
	assert.Equal(t, "", OrDerive("", ""))
}
