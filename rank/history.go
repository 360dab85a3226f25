// Package rank 提供把打分核心接入 Pipeline 的排序 Node。
package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/ratekit/core"
)

// userRatings 优先使用请求中携带的评分，否则从 RatingStore 按 UserID 拉取。
func userRatings(ctx context.Context, rctx *core.RecommendContext, rs core.RatingStore) ([]core.Rating, error) {
	if rctx == nil {
		return nil, nil
	}
	if len(rctx.Ratings) > 0 || rs == nil || rctx.UserID == "" {
		return rctx.Ratings, nil
	}
	ratings, err := rs.UserRatings(ctx, rctx.UserID)
	if err != nil {
		return nil, fmt.Errorf("load ratings of user %s: %w", rctx.UserID, err)
	}
	return ratings, nil
}

// union 合并两组 ID 并去重，保持先 a 后 b 的出现顺序。
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, ids := range [][]string{a, b} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// sortByScore 按分数降序、ID 升序排序。
func sortByScore(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}
