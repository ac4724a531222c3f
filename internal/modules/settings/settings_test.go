package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestDeepMergeJSONNestedObjects(t *testing.T) {
	old := mustJSON(t, `{"site_name":"Techpress","social":{"twitter":"@tp","rss":true}}`)
	incoming := mustJSON(t, `{"social":{"twitter":"@techpress"}}`)

	merged := deepMergeJSON(old, incoming).(map[string]interface{})
	assert.Equal(t, "Techpress", merged["site_name"])
	social := merged["social"].(map[string]interface{})
	assert.Equal(t, "@techpress", social["twitter"])
	assert.Equal(t, true, social["rss"])
}

func TestDeepMergeJSONArraysReplaceWholesale(t *testing.T) {
	old := mustJSON(t, `{"navigation_menu":[{"label":"Home"},{"label":"About"}]}`)
	incoming := mustJSON(t, `{"navigation_menu":[{"label":"Archive"}]}`)

	merged := deepMergeJSON(old, incoming).(map[string]interface{})
	nav := merged["navigation_menu"].([]interface{})
	require.Len(t, nav, 1)
	assert.Equal(t, "Archive", nav[0].(map[string]interface{})["label"])
}

func TestDeepMergeJSONScalarOverwrite(t *testing.T) {
	assert.Equal(t, "b", deepMergeJSON("a", "b"))
	assert.Equal(t, float64(2), deepMergeJSON(float64(1), float64(2)))
	assert.Nil(t, deepMergeJSON("a", nil))
}

func TestDeepMergeJSONTypeMismatchTakesNew(t *testing.T) {
	old := mustJSON(t, `{"footer":{"columns":3}}`)
	incoming := mustJSON(t, `{"footer":"disabled"}`)

	merged := deepMergeJSON(old, incoming).(map[string]interface{})
	assert.Equal(t, "disabled", merged["footer"])
}
