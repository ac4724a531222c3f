package layout

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/techpress/core/internal/models"
)

// insertBlock places b at position idx, clamping idx to the list bounds. A
// negative idx appends.
func insertBlock(blocks []models.Block, b models.Block, idx int) []models.Block {
	if idx < 0 || idx > len(blocks) {
		idx = len(blocks)
	}
	out := make([]models.Block, 0, len(blocks)+1)
	out = append(out, blocks[:idx]...)
	out = append(out, b)
	out = append(out, blocks[idx:]...)
	return out
}

func findBlock(blocks []models.Block, id string) int {
	for i, b := range blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func removeBlock(blocks []models.Block, id string) ([]models.Block, bool) {
	idx := findBlock(blocks, id)
	if idx < 0 {
		return blocks, false
	}
	out := make([]models.Block, 0, len(blocks)-1)
	out = append(out, blocks[:idx]...)
	out = append(out, blocks[idx+1:]...)
	return out, true
}

func updateBlockData(blocks []models.Block, id string, data json.RawMessage) ([]models.Block, bool) {
	idx := findBlock(blocks, id)
	if idx < 0 {
		return blocks, false
	}
	out := append([]models.Block(nil), blocks...)
	out[idx].Data = data
	return out, true
}

func toggleBlock(blocks []models.Block, id string, enabled bool) ([]models.Block, bool) {
	idx := findBlock(blocks, id)
	if idx < 0 {
		return blocks, false
	}
	out := append([]models.Block(nil), blocks...)
	out[idx].Enabled = enabled
	return out, true
}

// reorderBlocks rearranges blocks to the order given by ids. The ids must be
// exactly the current block ids, each once.
func reorderBlocks(blocks []models.Block, ids []string) ([]models.Block, error) {
	if len(ids) != len(blocks) {
		return nil, fmt.Errorf("order lists %d ids, surface has %d blocks", len(ids), len(blocks))
	}
	byID := make(map[string]models.Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}
	out := make([]models.Block, 0, len(blocks))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("duplicate block id %q in order", id)
		}
		seen[id] = true
		b, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown block id %q in order", id)
		}
		out = append(out, b)
	}
	return out, nil
}

func newBlockID() string { return uuid.NewString() }
