package rank

import (
	"context"
	"fmt"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pipeline"
	"github.com/rushteam/ratekit/profile"
)

// ContentNode 基于内容画像给候选打分：
// 用户画像 = 偏好加权的已评分物品向量之和，候选分 = 画像与候选向量的余弦相似度。
//   - 写入 labels：rank_model=content
//   - 没有内容向量的候选被移除
//   - 评分历史为空时返回 core.ErrEmptyHistory，由调用方决定冷启动策略
type ContentNode struct {
	Vectors core.VectorStore
	Ratings core.RatingStore
}

func (n *ContentNode) Name() string        { return "rank.content" }
func (n *ContentNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ContentNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Vectors == nil || len(items) == 0 {
		return items, nil
	}

	ratings, err := userRatings(ctx, rctx, n.Ratings)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, core.ErrEmptyHistory
	}

	rated := make([]string, 0, len(ratings))
	for _, r := range ratings {
		rated = append(rated, r.ItemID)
	}
	candidates := core.ItemIDs(items)

	vectors, err := n.Vectors.ItemVectors(ctx, union(rated, candidates))
	if err != nil {
		return nil, fmt.Errorf("load item vectors: %w", err)
	}

	prof, err := profile.NewWeighted(core.VectorsOf(vectors)).Build(ratings)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		vec, ok := vectors[it.ID]
		if !ok || len(vec) == 0 {
			continue
		}
		it.Score = profile.Match(prof, vec)
		it.PutLabel("rank_model", core.Label{Value: "content", Source: "rank"})
		out = append(out, it)
	}

	sortByScore(out)
	return out, nil
}
