package rank

import (
	"context"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/model"
	"github.com/rushteam/ratekit/neighborhood"
	"github.com/rushteam/ratekit/pipeline"
)

// ItemItemNode 用物品邻域协同过滤给候选打分。
//   - 写入 labels：rank_model=item_item
//   - 写入 meta：neighbors（实际参与加权的邻居数）
//   - 无法预测（没有可用邻居 / 缺少均值被跳过）的候选被移除
//   - 用户没有任何评分时给 rctx 写入 cold_start 标签
//   - 输出按预测分降序
type ItemItemNode struct {
	Scorer  neighborhood.Scorer
	Loader  *model.Loader
	Ratings core.RatingStore
}

// NewItemItemNode 用同一个 ModelStore 提供评分、邻域与均值。
func NewItemItemNode(scorer neighborhood.Scorer, ms core.ModelStore) *ItemItemNode {
	return &ItemItemNode{
		Scorer:  scorer,
		Loader:  model.NewLoader(ms),
		Ratings: ms,
	}
}

func (n *ItemItemNode) Name() string        { return "rank.item_item" }
func (n *ItemItemNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ItemItemNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil || n.Loader == nil || len(items) == 0 {
		return items, nil
	}

	ratings, err := userRatings(ctx, rctx, n.Ratings)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 && rctx != nil {
		rctx.PutLabel("cold_start", core.Label{Value: "true", Source: n.Name()})
	}
	history := core.RatingsToHistory(ratings)
	candidates := core.ItemIDs(items)

	snap, err := n.Loader.Load(ctx, model.Request{
		NeighborhoodItems: candidates,
		MeanItems:         union(candidates, core.SortedKeys(history)),
	})
	if err != nil {
		return nil, err
	}

	res, err := n.Scorer.Score(candidates, history, snap.Means, snap.NeighborhoodLookup())
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(res.Scores))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		score, ok := res.Scores[it.ID]
		if !ok {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}

		it.Score = score
		if it.Meta == nil {
			it.Meta = make(map[string]any)
		}
		it.Meta["neighbors"] = res.Neighbors[it.ID]
		it.PutLabel("rank_model", core.Label{Value: "item_item", Source: "rank"})
		out = append(out, it)
	}

	sortByScore(out)
	return out, nil
}
