package amazon

import (
	"fmt"
	"testing"
)

func TestChunkKeys(t *testing.T) {
	t.Parallel()
	makeKeys := func(n int) []string {
		keys := make([]string, n)
		for i := range keys {
			keys[i] = fmt.Sprintf("charts/pkg-%d.tgz", i)
		}
		return keys
	}

	tests := []struct {
		name      string
		keys      []string
		size      int
		wantSizes []int
	}{
		{"empty", nil, 1000, nil},
		{"single partial batch", makeKeys(3), 1000, []int{3}},
		{"exact batch", makeKeys(1000), 1000, []int{1000}},
		{"one over", makeKeys(1001), 1000, []int{1000, 1}},
		{"several batches", makeKeys(2500), 1000, []int{1000, 1000, 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			batches := chunkKeys(tt.keys, tt.size)
			if len(batches) != len(tt.wantSizes) {
				t.Fatalf("chunkKeys() returned %d batches, want %d", len(batches), len(tt.wantSizes))
			}
			total := 0
			for i, batch := range batches {
				if len(batch) != tt.wantSizes[i] {
					t.Errorf("batch %d has %d keys, want %d", i, len(batch), tt.wantSizes[i])
				}
				total += len(batch)
			}
			if total != len(tt.keys) {
				t.Errorf("batches cover %d keys, want %d", total, len(tt.keys))
			}
		})
	}
}
