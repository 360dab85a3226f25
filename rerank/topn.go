// Package rerank 提供排序之后的重排与截断节点。
package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pipeline"
)

// TopNNode 按分数降序（同分按 ID 升序）排序后截取前 N 个物品。
// 通常放在排序（Rank）节点之后，用于限制返回结果数量。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        rank.NewItemItemNode(scorer, models),
//	        &rerank.TopNNode{N: 20},
//	    },
//	}
type TopNNode struct {
	// N 要保留的物品数量；N <= 0 时不截断，只排序。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})

	if n.N > 0 && len(out) > n.N {
		out = out[:n.N]
	}
	return out, nil
}
