package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/ratekit/core"
)

func lookupFrom(vectors map[string]core.FeatureVector) core.VectorLookup {
	return core.VectorsOf(vectors)
}

func TestWeighted_Build(t *testing.T) {
	tests := []struct {
		name    string
		ratings []core.Rating
		vectors map[string]core.FeatureVector
		want    core.UserProfile
	}{
		{
			name: "above and below mean",
			ratings: []core.Rating{
				{UserID: "u1", ItemID: "item1", Value: 4.0},
				{UserID: "u1", ItemID: "item2", Value: 2.0},
			},
			vectors: map[string]core.FeatureVector{
				"item1": {"t1": 1.0},
				"item2": {"t2": 1.0},
			},
			want: core.UserProfile{"t1": 1.0, "t2": -1.0},
		},
		{
			name: "shared term accumulates",
			ratings: []core.Rating{
				{ItemID: "a", Value: 5.0},
				{ItemID: "b", Value: 3.0},
				{ItemID: "c", Value: 1.0},
			},
			vectors: map[string]core.FeatureVector{
				"a": {"x": 0.5, "y": 1.0},
				"b": {"x": 2.0},
				"c": {"y": 0.25},
			},
			// mean = 3; weights: a=+2, b=0, c=-2
			want: core.UserProfile{"x": 1.0, "y": 1.5},
		},
		{
			name: "missing vector contributes nothing",
			ratings: []core.Rating{
				{ItemID: "known", Value: 5.0},
				{ItemID: "unknown", Value: 1.0},
			},
			vectors: map[string]core.FeatureVector{
				"known": {"t": 0.5},
			},
			want: core.UserProfile{"t": 1.0},
		},
		{
			name: "cancellation keeps explicit zero",
			ratings: []core.Rating{
				{ItemID: "a", Value: 4.0},
				{ItemID: "b", Value: 2.0},
			},
			vectors: map[string]core.FeatureVector{
				"a": {"t": 1.0},
				"b": {"t": 1.0},
			},
			want: core.UserProfile{"t": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewWeighted(lookupFrom(tt.vectors)).Build(tt.ratings)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for term, want := range tt.want {
				assert.InDelta(t, want, got[term], 1e-9, "term %s", term)
			}
		})
	}
}

func TestWeighted_EmptyHistory(t *testing.T) {
	_, err := NewWeighted(lookupFrom(nil)).Build(nil)
	require.Error(t, err)
	assert.True(t, core.IsEmptyHistory(err))
}

func TestWeighted_AllEqualRatings(t *testing.T) {
	ratings := []core.Rating{
		{ItemID: "a", Value: 3},
		{ItemID: "b", Value: 3},
	}
	vectors := map[string]core.FeatureVector{
		"a": {"t1": 1},
		"b": {"t2": 1},
	}
	got, err := NewWeighted(lookupFrom(vectors)).Build(ratings)
	require.NoError(t, err)
	for term, w := range got {
		assert.Zero(t, w, "term %s", term)
	}
}

func TestWeighted_PermutationInvariant(t *testing.T) {
	ratings := []core.Rating{
		{ItemID: "a", Value: 4.5},
		{ItemID: "b", Value: 1.0},
		{ItemID: "c", Value: 3.3},
		{ItemID: "d", Value: 2.7},
	}
	vectors := map[string]core.FeatureVector{
		"a": {"x": 0.1, "y": 0.7},
		"b": {"x": 0.9, "z": 0.3},
		"c": {"y": 0.2, "z": 0.4},
		"d": {"x": 0.6},
	}
	b := NewWeighted(lookupFrom(vectors))

	want, err := b.Build(ratings)
	require.NoError(t, err)

	reversed := []core.Rating{ratings[3], ratings[2], ratings[1], ratings[0]}
	shuffled := []core.Rating{ratings[2], ratings[0], ratings[3], ratings[1]}
	for _, perm := range [][]core.Rating{reversed, shuffled} {
		got, err := b.Build(perm)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// 输入不被修改
	assert.Equal(t, "a", ratings[0].ItemID)
}

func TestWeighted_NilLookup(t *testing.T) {
	got, err := (&Weighted{}).Build([]core.Rating{{ItemID: "a", Value: 1}, {ItemID: "b", Value: 5}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMatch(t *testing.T) {
	p := core.UserProfile{"t1": 1.0, "t2": -1.0}

	assert.InDelta(t, 1/1.4142135623730951, Match(p, core.FeatureVector{"t1": 3}), 1e-12)
	assert.InDelta(t, -1/1.4142135623730951, Match(p, core.FeatureVector{"t2": 0.5}), 1e-12)
	assert.Zero(t, Match(p, core.FeatureVector{"t3": 1}))
	assert.Zero(t, Match(core.UserProfile{}, core.FeatureVector{"t1": 1}))
	assert.Zero(t, Match(core.UserProfile{"t1": 0}, core.FeatureVector{"t1": 1}))
}
