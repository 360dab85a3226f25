package model

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/ratekit/core"
)

// Snapshot 是一次请求用到的模型数据，加载后只读。
type Snapshot struct {
	Vectors       map[string]core.FeatureVector
	Neighborhoods map[string]core.SimilarityNeighborhood
	Means         core.ItemMeanTable
}

// VectorLookup 返回内容向量查询函数。
func (s *Snapshot) VectorLookup() core.VectorLookup {
	return core.VectorsOf(s.Vectors)
}

// NeighborhoodLookup 返回相似邻域查询函数。
func (s *Snapshot) NeighborhoodLookup() core.NeighborhoodLookup {
	return core.NeighborsOf(s.Neighborhoods)
}

// Request 指定需要加载的物品 ID；为空的部分不加载。
type Request struct {
	VectorItems       []string
	NeighborhoodItems []string
	MeanItems         []string
}

// Loader 从各模型来源并发加载一次请求所需的数据。
// 字段为 nil 时对应部分保持为空表。
type Loader struct {
	Vectors       core.VectorStore
	Neighborhoods core.NeighborhoodStore
	Means         core.MeanStore
}

// NewLoader 用同一个 ModelStore 提供全部数据。
func NewLoader(ms core.ModelStore) *Loader {
	return &Loader{Vectors: ms, Neighborhoods: ms, Means: ms}
}

// Load 并发加载 req 中的数据，任一来源出错即返回错误。
func (l *Loader) Load(ctx context.Context, req Request) (*Snapshot, error) {
	snap := &Snapshot{
		Vectors:       map[string]core.FeatureVector{},
		Neighborhoods: map[string]core.SimilarityNeighborhood{},
		Means:         core.ItemMeanTable{},
	}

	eg, ctx := errgroup.WithContext(ctx)
	if l.Vectors != nil && len(req.VectorItems) > 0 {
		eg.Go(func() error {
			v, err := l.Vectors.ItemVectors(ctx, req.VectorItems)
			if err != nil {
				return fmt.Errorf("load item vectors: %w", err)
			}
			snap.Vectors = v
			return nil
		})
	}
	if l.Neighborhoods != nil && len(req.NeighborhoodItems) > 0 {
		eg.Go(func() error {
			n, err := l.Neighborhoods.Neighborhoods(ctx, req.NeighborhoodItems)
			if err != nil {
				return fmt.Errorf("load neighborhoods: %w", err)
			}
			snap.Neighborhoods = n
			return nil
		})
	}
	if l.Means != nil && len(req.MeanItems) > 0 {
		eg.Go(func() error {
			m, err := l.Means.ItemMeans(ctx, req.MeanItems)
			if err != nil {
				return fmt.Errorf("load item means: %w", err)
			}
			snap.Means = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
