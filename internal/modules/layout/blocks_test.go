package layout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/core/internal/models"
)

func mkBlocks(ids ...string) []models.Block {
	out := make([]models.Block, len(ids))
	for i, id := range ids {
		out[i] = models.Block{ID: id, Type: models.BlockHero, Enabled: true}
	}
	return out
}

func idsOf(blocks []models.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}

func TestInsertBlock(t *testing.T) {
	base := mkBlocks("a", "b", "c")
	nb := models.Block{ID: "x", Type: models.BlockHero, Enabled: true}

	tests := []struct {
		name string
		idx  int
		want []string
	}{
		{"append with negative index", -1, []string{"a", "b", "c", "x"}},
		{"insert at head", 0, []string{"x", "a", "b", "c"}},
		{"insert in middle", 1, []string{"a", "x", "b", "c"}},
		{"index past end clamps to append", 10, []string{"a", "b", "c", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := insertBlock(base, nb, tt.idx)
			assert.Equal(t, tt.want, idsOf(got))
			// source list is untouched
			assert.Equal(t, []string{"a", "b", "c"}, idsOf(base))
		})
	}
}

func TestRemoveBlock(t *testing.T) {
	base := mkBlocks("a", "b", "c")

	got, ok := removeBlock(base, "b")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, idsOf(got))

	_, ok = removeBlock(base, "zzz")
	assert.False(t, ok)
}

func TestToggleAndUpdatePreservePosition(t *testing.T) {
	base := mkBlocks("a", "b", "c")

	toggled, ok := toggleBlock(base, "b", false)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, idsOf(toggled))
	assert.False(t, toggled[1].Enabled)
	assert.True(t, base[1].Enabled)

	data := json.RawMessage(`{"heading":"hi"}`)
	updated, ok := updateBlockData(base, "c", data)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, idsOf(updated))
	assert.JSONEq(t, `{"heading":"hi"}`, string(updated[2].Data))
}

func TestReorderBlocks(t *testing.T) {
	base := mkBlocks("a", "b", "c")

	got, err := reorderBlocks(base, []string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, idsOf(got))

	_, err = reorderBlocks(base, []string{"a", "b"})
	assert.Error(t, err, "short order must be rejected")

	_, err = reorderBlocks(base, []string{"a", "a", "b"})
	assert.Error(t, err, "duplicate ids must be rejected")

	_, err = reorderBlocks(base, []string{"a", "b", "zzz"})
	assert.Error(t, err, "unknown id must be rejected")
}

// A decoded surface re-encodes to the same JSON, so saving a layout that was
// read back is lossless.
func TestHomepageLayoutRoundTrip(t *testing.T) {
	src := `[
		{"id":"h1","type":"hero","enabled":true,"data":{"heading":"Welcome","cta_label":"Go"}},
		{"id":"f1","type":"feature_grid","data":{"title":"Picks","columns":3,"post_slugs":["a","b"]}},
		{"id":"s1","type":"smart_feed","enabled":false,"data":{"source":"category","ref":"ai","limit":6}}
	]`
	var layout models.HomepageLayout
	require.NoError(t, json.Unmarshal([]byte(src), &layout))

	// absent enabled flag defaults to true
	assert.True(t, layout[1].Enabled)
	assert.False(t, layout[2].Enabled)

	for _, b := range layout {
		require.NoError(t, b.ValidateHomepage())
	}

	encoded, err := json.Marshal(layout)
	require.NoError(t, err)

	var second models.HomepageLayout
	require.NoError(t, json.Unmarshal(encoded, &second))
	reencoded, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(encoded), string(reencoded))
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	b := models.Block{ID: "x", Type: "carousel", Enabled: true}
	assert.Error(t, b.ValidateHomepage())
	assert.Error(t, b.ValidateFooter())

	// footer kinds are not valid on the homepage
	menu := models.Block{ID: "m", Type: models.BlockMenu, Enabled: true, Data: json.RawMessage(`{"items":[]}`)}
	assert.Error(t, menu.ValidateHomepage())
	assert.NoError(t, menu.ValidateFooter())
}
