package builders

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/ratekit/config"
	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/model"
	"github.com/rushteam/ratekit/pipeline"
	"github.com/rushteam/ratekit/store"
)

const pipelineYAML = `
pipeline:
  name: item_item_demo
  nodes:
    - type: rank.item_item
      config:
        k: 20
        workers: 4
    - type: filter.expr
      config:
        expr: "item.score >= 3.0"
    - type: rerank.topn
      config:
        n: 1
`

func newResources(t *testing.T) pipeline.Resources {
	t.Helper()
	models := model.NewStoreAdapter(store.NewMemoryStore(), "")
	err := model.SetupModelData(context.Background(), models, model.Fixture{
		Neighborhoods: map[string]core.SimilarityNeighborhood{
			"c": {"n1": 0.8, "n2": 0.4},
			"d": {"n1": 0.5},
			"f": {"n2": 1.0},
		},
		Means: core.ItemMeanTable{"c": 3.5, "d": 2.0, "f": 2.0, "n1": 3.0, "n2": 2.5},
		Ratings: []core.Rating{
			{UserID: "u1", ItemID: "n1", Value: 4.0},
			{UserID: "u1", ItemID: "n2", Value: 2.0},
		},
	})
	require.NoError(t, err)
	return pipeline.Resources{
		Models:     models,
		Logger:     zerolog.Nop(),
		Registerer: prometheus.NewRegistry(),
	}
}

func TestPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(pipelineYAML))
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	res := newResources(t)
	p, err := cfg.BuildPipeline(config.DefaultFactory(), res)
	require.NoError(t, err)

	// c = 4.0, d = 2.0 + 1.0 = 3.0, f = 2.0 - 0.5 = 1.5
	out, err := p.Recommend(context.Background(), &core.RecommendContext{UserID: "u1"}, []string{"f", "d", "c"})
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, core.ItemIDs(out))
	assert.InDelta(t, 4.0, out[0].Score, 1e-9)
}

func TestBuildItemItemNode_MetricsReused(t *testing.T) {
	res := newResources(t)

	// 同一个 Registerer 上构建两次不会重复注册失败
	first, err := BuildItemItemNode(map[string]any{}, res)
	require.NoError(t, err)
	_, err = BuildItemItemNode(map[string]any{"k": 5}, res)
	require.NoError(t, err)

	_, err = first.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, core.NewItems("c", "d"))
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(res.Registerer.(prometheus.Gatherer), "ratekit_candidates_scored_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBuilders_InvalidConfig(t *testing.T) {
	res := newResources(t)

	tests := []struct {
		name  string
		build pipeline.NodeBuilder
		cfg   map[string]any
		res   pipeline.Resources
	}{
		{name: "negative k", build: BuildItemItemNode, cfg: map[string]any{"k": -1}, res: res},
		{name: "too many workers", build: BuildItemItemNode, cfg: map[string]any{"workers": 1000}, res: res},
		{name: "min similarity out of range", build: BuildItemItemNode, cfg: map[string]any{"min_similarity": 1.5}, res: res},
		{name: "missing model store", build: BuildItemItemNode, cfg: map[string]any{}},
		{name: "missing vector store", build: BuildContentNode, cfg: map[string]any{}},
		{name: "missing expr", build: BuildExprNode, cfg: map[string]any{}},
		{name: "bad expr", build: BuildExprNode, cfg: map[string]any{"expr": "item.score >="}},
		{name: "negative n", build: BuildTopNNode, cfg: map[string]any{"n": -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(tt.cfg, tt.res)
			assert.Error(t, err)
		})
	}
}

func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	for _, want := range []string{"filter.expr", "rank.content", "rank.item_item", "rerank.topn"} {
		assert.Contains(t, types, want)
	}

	bad := &pipeline.Config{}
	bad.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "recall.hot"}, {Type: "rerank.topn"}, {Type: ""}}
	err := config.ValidatePipelineConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node #0: unsupported node type "recall.hot"`)
	assert.Contains(t, err.Error(), "node #2: empty type")
	assert.NotContains(t, err.Error(), "node #1")
	assert.Contains(t, err.Error(), "rank.item_item")
}

func TestBuildItemItemNode_MinSimilarity(t *testing.T) {
	res := newResources(t)

	// d 唯一的邻居 n1 相似度 0.5 低于阈值，无法预测
	node, err := BuildItemItemNode(map[string]any{"min_similarity": 0.6}, res)
	require.NoError(t, err)

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, core.NewItems("c", "d"))
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, core.ItemIDs(out))
	// c 只保留 n1 (0.8)：3.5 + (4.0 - 3.0)
	assert.InDelta(t, 4.5, out[0].Score, 1e-9)
}

func TestBuildItemItemNode_MetricsConflict(t *testing.T) {
	res := newResources(t)
	res.Registerer = prometheus.NewRegistry()
	res.Registerer.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ratekit",
		Name:      "candidates_scored_total",
		Help:      "conflicting collector",
	}))

	_, err := BuildItemItemNode(map[string]any{}, res)
	assert.ErrorContains(t, err, "register metrics")
}
