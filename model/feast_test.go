package model

import (
	"context"
	"errors"
	"testing"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/ratekit/core"
)

func TestFeastVectors_ItemVectors(t *testing.T) {
	var gotReq *feastsdk.OnlineFeaturesRequest
	fv := newFeastVectors(FeastConfig{
		Project:  "movies",
		Features: []string{"item_tags:action", "item_tags:comedy", "item_tags:title"},
	}, func(_ context.Context, req *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error) {
		gotReq = req
		return []feastsdk.Row{
			{
				"item_tags:action": feastsdk.DoubleVal(0.7),
				"item_tags:comedy": feastsdk.FloatVal(0),
				"item_tags:title":  feastsdk.StrVal("Heat"),
			},
			{
				"item_tags:comedy": feastsdk.Int64Val(2),
			},
			{},
		}, nil
	})

	vecs, err := fv.ItemVectors(context.Background(), []string{"i1", "i2", "i3"})
	require.NoError(t, err)

	assert.Equal(t, map[string]core.FeatureVector{
		"i1": {"action": 0.7},
		"i2": {"comedy": 2},
	}, vecs)

	require.NotNil(t, gotReq)
	assert.Equal(t, "movies", gotReq.Project)
	require.Len(t, gotReq.Entities, 3)
	assert.Equal(t, "i2", gotReq.Entities[1]["item_id"].GetStringVal())
}

func TestFeastVectors_Errors(t *testing.T) {
	cfg := FeastConfig{Project: "p", Features: []string{"t:a"}}

	failing := newFeastVectors(cfg, func(context.Context, *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error) {
		return nil, errors.New("unavailable")
	})
	_, err := failing.ItemVectors(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "unavailable")

	short := newFeastVectors(cfg, func(context.Context, *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error) {
		return nil, nil
	})
	_, err = short.ItemVectors(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "expected 1 rows")
	assert.True(t, core.IsInvalidModelData(err))

	empty, err := short.ItemVectors(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTermOf(t *testing.T) {
	assert.Equal(t, "action", termOf("item_tags:action"))
	assert.Equal(t, "plain", termOf("plain"))
}

func TestNewFeastVectors_InvalidConfig(t *testing.T) {
	_, err := NewFeastVectors(FeastConfig{Host: "localhost"})
	assert.ErrorContains(t, err, "feast config")
}
