package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/ratekit/core"
)

func items(scores map[string]float64) []*core.Item {
	out := make([]*core.Item, 0, len(scores))
	for _, id := range core.SortedKeys(scores) {
		it := core.NewItem(id)
		it.Score = scores[id]
		out = append(out, it)
	}
	return out
}

func TestTopNNode_Process(t *testing.T) {
	in := items(map[string]float64{"a": 1, "b": 3, "c": 3, "d": 2})

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "truncate", n: 2, want: []string{"b", "c"}},
		{name: "larger than input", n: 10, want: []string{"b", "c", "d", "a"}},
		{name: "no limit", n: 0, want: []string{"b", "c", "d", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, core.ItemIDs(out))
		})
	}
}

func TestTopNNode_DoesNotReorderInput(t *testing.T) {
	in := items(map[string]float64{"a": 1, "b": 2})
	_, err := (&TopNNode{N: 1}).Process(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, core.ItemIDs(in))
}
