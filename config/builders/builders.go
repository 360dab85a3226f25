// Package builders 注册内置 Node 的配置构建逻辑。
package builders

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rushteam/ratekit/config"
	"github.com/rushteam/ratekit/filter"
	"github.com/rushteam/ratekit/neighborhood"
	"github.com/rushteam/ratekit/pipeline"
	"github.com/rushteam/ratekit/pkg/conv"
	"github.com/rushteam/ratekit/rank"
	"github.com/rushteam/ratekit/rerank"
)

func init() {
	config.Register("rank.item_item", BuildItemItemNode)
	config.Register("rank.content", BuildContentNode)
	config.Register("filter.expr", BuildExprNode)
	config.Register("rerank.topn", BuildTopNNode)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ItemItemOptions 是 rank.item_item 的配置。
type ItemItemOptions struct {
	K             int     `validate:"gte=0"`
	Workers       int     `validate:"gte=0,lte=256"`
	MinSimilarity float64 `validate:"gte=0,lte=1"`
	Strict        bool
}

// ExprOptions 是 filter.expr 的配置。
type ExprOptions struct {
	Expr string `validate:"required"`
}

// TopNOptions 是 rerank.topn 的配置。
type TopNOptions struct {
	N int `validate:"gte=0"`
}

func BuildItemItemNode(cfg map[string]any, res pipeline.Resources) (pipeline.Node, error) {
	if res.Models == nil {
		return nil, fmt.Errorf("rank.item_item requires a model store")
	}
	opts := ItemItemOptions{
		K:       conv.ConfigGetInt(cfg, "k", neighborhood.DefaultNeighborhoodSize),
		Workers:       conv.ConfigGetInt(cfg, "workers", 0),
		MinSimilarity: conv.ConfigGetFloat64(cfg, "min_similarity", 0),
		Strict:        conv.ConfigGet(cfg, "strict", false),
	}
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("rank.item_item config: %w", err)
	}

	metrics, err := neighborhood.NewMetrics(res.Registerer)
	if err != nil {
		return nil, fmt.Errorf("rank.item_item: %w", err)
	}

	scorer := neighborhood.NewItemItem(
		neighborhood.WithNeighborhoodSize(opts.K),
		neighborhood.WithWorkers(opts.Workers),
		neighborhood.WithMinSimilarity(opts.MinSimilarity),
		neighborhood.WithStrict(opts.Strict),
		neighborhood.WithLogger(res.Logger),
		neighborhood.WithMetrics(metrics),
	)
	return rank.NewItemItemNode(scorer, res.Models), nil
}

func BuildContentNode(_ map[string]any, res pipeline.Resources) (pipeline.Node, error) {
	vectors := res.VectorStore()
	if vectors == nil {
		return nil, fmt.Errorf("rank.content requires a vector store")
	}
	node := &rank.ContentNode{Vectors: vectors}
	if res.Models != nil {
		node.Ratings = res.Models
	}
	return node, nil
}

func BuildExprNode(cfg map[string]any, res pipeline.Resources) (pipeline.Node, error) {
	opts := ExprOptions{Expr: conv.ConfigGet(cfg, "expr", "")}
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("filter.expr config: %w", err)
	}
	node, err := filter.NewExprNode(opts.Expr)
	if err != nil {
		return nil, err
	}
	node.Logger = res.Logger
	return node, nil
}

func BuildTopNNode(cfg map[string]any, _ pipeline.Resources) (pipeline.Node, error) {
	opts := TopNOptions{N: conv.ConfigGetInt(cfg, "n", 0)}
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("rerank.topn config: %w", err)
	}
	return &rerank.TopNNode{N: opts.N}, nil
}
