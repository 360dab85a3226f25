// Package dsl 提供基于 CEL (Common Expression Language) 的 Item 表达式求值。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/ratekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的布尔表达式，可被多个 goroutine 复用。
//
// 可用变量：
//   - item.id / item.score / item.meta.neighbors / item.labels.rank_model.value
//   - label.rank_model：Label 的 Value 简写
//   - rctx.user_id / rctx.scene / rctx.params
//   - rctx.labels.cold_start：用户级 Label 的 Value
//
// 示例：
//   - `item.score >= 3.5`
//   - `label.rank_model == "item_item" && item.meta.neighbors >= 2`
//   - `has(rctx.params.min_score) ? item.score >= rctx.params.min_score : true`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Match 对 item 求值。访问不存在的 key 会返回错误，应使用 has(...) 判断存在性。
func (p *Program) Match(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return bool, got %T", p.expr, out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	labelValues := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]any{"value": v.Value, "source": v.Source}
		labelValues[k] = v.Value
	}

	meta := item.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	ctxInput := map[string]any{
		"user_id": "",
		"scene":   "",
		"params":  map[string]any{},
		"labels":  map[string]any{},
	}
	if rctx != nil {
		ctxInput["user_id"] = rctx.UserID
		ctxInput["scene"] = rctx.Scene
		if rctx.Params != nil {
			ctxInput["params"] = rctx.Params
		}
		userLabels := make(map[string]any, len(rctx.Labels))
		for k, v := range rctx.Labels {
			userLabels[k] = v.Value
		}
		ctxInput["labels"] = userLabels
	}

	return map[string]any{
		"item": map[string]any{
			"id":     item.ID,
			"score":  item.Score,
			"meta":   meta,
			"labels": labels,
		},
		"label": labelValues,
		"rctx":  ctxInput,
	}
}
