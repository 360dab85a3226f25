// Package config 维护 Node 类型注册表，供配置驱动的 Pipeline 构建使用。
package config

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/ratekit/pipeline"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/ratekit/config/builders"
// 以触发内置 Node（rank.item_item、rank.content、filter.expr、rerank.topn）的 init 注册。

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 与注入的依赖构建 Node。
type NodeBuilder = pipeline.NodeBuilder

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，供 DefaultFactory 与配置驱动使用。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	return sortedTypes()
}

// sortedTypes 需在持有读锁时调用。
func sortedTypes() []string {
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 在构建前检查配置中的 node 类型：
// 空类型与未注册类型逐个报告（带序号），合并为一个错误返回。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()

	var errs []error
	for i, nc := range cfg.Pipeline.Nodes {
		switch _, ok := defaultBuilders[nc.Type]; {
		case nc.Type == "":
			errs = append(errs, fmt.Errorf("node #%d: empty type", i))
		case !ok:
			errs = append(errs, fmt.Errorf("node #%d: unsupported node type %q", i, nc.Type))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	errs = append(errs, fmt.Errorf("supported: %v", sortedTypes()))
	return errors.Join(errs...)
}
