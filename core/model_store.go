package core

import "context"

// 以下接口描述打分核心依赖的外部模型（内容模型、相似度模型、均值表、评分库）。
// 它们由 model 包基于 Store / Feast 实现，只读。
//
// 约定：请求的 ID 若不存在，结果 map 中直接缺省该 key，不返回错误；
// 缺省会在打分核心中被当作"空向量 / 空邻域 / 缺失均值"处理。

// VectorStore 提供物品内容特征向量
type VectorStore interface {
	ItemVectors(ctx context.Context, itemIDs []string) (map[string]FeatureVector, error)
}

// NeighborhoodStore 提供物品相似度邻域
type NeighborhoodStore interface {
	Neighborhoods(ctx context.Context, itemIDs []string) (map[string]SimilarityNeighborhood, error)
}

// MeanStore 提供物品平均评分
type MeanStore interface {
	ItemMeans(ctx context.Context, itemIDs []string) (ItemMeanTable, error)
}

// RatingStore 提供单个用户的评分历史
type RatingStore interface {
	UserRatings(ctx context.Context, userID string) ([]Rating, error)
}

// ModelStore 聚合全部模型访问接口
type ModelStore interface {
	VectorStore
	NeighborhoodStore
	MeanStore
	RatingStore
}
