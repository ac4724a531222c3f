package category

import "testing"

func lookupFromMap(parents map[string]string) func(id string) (string, bool) {
	return func(id string) (string, bool) {
		p, ok := parents[id]
		return p, ok
	}
}

func TestWouldCycle(t *testing.T) {
	// news -> tech -> root
	parents := map[string]string{
		"news": "tech",
		"tech": "root",
	}

	tests := []struct {
		name      string
		catID     string
		candidate string
		want      bool
	}{
		{"direct child as parent", "tech", "news", true},
		{"grandchild as parent", "root", "news", true},
		{"self as parent", "tech", "tech", true},
		{"sibling is fine", "news", "other", false},
		{"ancestor as parent is fine", "news", "root", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wouldCycle(tt.catID, tt.candidate, lookupFromMap(parents)); got != tt.want {
				t.Errorf("wouldCycle(%q, %q) = %v, want %v", tt.catID, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestWouldCycleBoundedOnCorruptChain(t *testing.T) {
	// a <-> b is already corrupt; the walk must terminate and report a cycle.
	parents := map[string]string{"a": "b", "b": "a"}
	if !wouldCycle("z", "a", lookupFromMap(parents)) {
		t.Error("expected corrupt ancestor chain to be treated as a cycle")
	}
}
