package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/ratekit/core"
)

// Pipeline 把一次推荐拆成可组合的 Node 链：候选 -> 打分 -> 过滤 -> 截断。
type Pipeline struct {
	Nodes  []Node
	Logger zerolog.Logger
}

// Run 依次执行所有 Node，任一 Node 出错即终止并返回带 Node 名称的错误。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		p.Logger.Debug().
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("in", len(cur)).
			Int("out", len(next)).
			Msg("node processed")
		cur = next
	}
	return cur, nil
}

// Recommend 是 Run 的便捷入口：以候选 ID 构造 items 后执行。
func (p *Pipeline) Recommend(ctx context.Context, rctx *core.RecommendContext, candidates []string) ([]*core.Item, error) {
	return p.Run(ctx, rctx, core.NewItems(candidates...))
}
