package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉。
// 过滤器出错时记录日志并保留该物品，不中断流程。
type FilterNode struct {
	Filters []Filter
	Logger  zerolog.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		reason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				n.Logger.Warn().Err(err).
					Str("filter", f.Name()).
					Str("item_id", item.ID).
					Msg("filter failed, item kept")
				continue
			}
			if ok {
				reason = f.Name()
				break
			}
		}

		if reason != "" {
			// 记录过滤原因，便于调试
			item.PutLabel("filtered", core.Label{Value: "true", Source: reason})
			continue
		}
		out = append(out, item)
	}

	n.Logger.Debug().
		Int("in", len(items)).
		Int("out", len(out)).
		Msg("filter done")
	return out, nil
}
