package filter

import (
	"context"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pkg/dsl"
)

// ExprFilter 保留表达式求值为 true 的物品，例如 `item.score >= 3.5`。
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式，语法错误在构建时返回。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	keep, err := f.prg.Match(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

// ExprNode 是单个表达式的 FilterNode 简写。
type ExprNode struct {
	FilterNode
}

// NewExprNode 构建只包含一个 ExprFilter 的过滤节点。
func NewExprNode(expr string) (*ExprNode, error) {
	f, err := NewExprFilter(expr)
	if err != nil {
		return nil, err
	}
	return &ExprNode{FilterNode: FilterNode{Filters: []Filter{f}}}, nil
}

func (n *ExprNode) Name() string {
	return "filter.expr"
}
