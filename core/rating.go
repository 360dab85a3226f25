package core

import "sort"

// Rating 是一条用户对物品的评分，由外部提供，不可变。
type Rating struct {
	UserID string  `json:"user_id"`
	ItemID string  `json:"item_id"`
	Value  float64 `json:"value"`
}

// FeatureVector 是物品的稀疏内容向量：term -> weight（例如 TF-IDF）。
type FeatureVector map[string]float64

// UserProfile 是用户口味画像：term -> 累积权重。
// 每次构建都新建一个，返回后归调用方所有。
type UserProfile map[string]float64

// SimilarityNeighborhood 是某物品的相似邻域：邻居 itemID -> 相似度（可为负）。
type SimilarityNeighborhood map[string]float64

// ItemMeanTable 是物品平均评分表：itemID -> mean。
type ItemMeanTable map[string]float64

// VectorLookup 查询物品内容向量，不存在时返回 nil（按空向量处理）。
type VectorLookup func(itemID string) FeatureVector

// NeighborhoodLookup 查询物品相似邻域，不存在时返回 nil（按空邻域处理）。
type NeighborhoodLookup func(itemID string) SimilarityNeighborhood

// VectorsOf 把一张已加载的向量表包装成 VectorLookup。
func VectorsOf(vectors map[string]FeatureVector) VectorLookup {
	return func(itemID string) FeatureVector {
		return vectors[itemID]
	}
}

// NeighborsOf 把一张已加载的邻域表包装成 NeighborhoodLookup。
func NeighborsOf(neighborhoods map[string]SimilarityNeighborhood) NeighborhoodLookup {
	return func(itemID string) SimilarityNeighborhood {
		return neighborhoods[itemID]
	}
}

// RatingsToHistory 把评分序列转为 itemID -> value；同一物品出现多次时保留最后一次。
func RatingsToHistory(ratings []Rating) map[string]float64 {
	history := make(map[string]float64, len(ratings))
	for _, r := range ratings {
		history[r.ItemID] = r.Value
	}
	return history
}

// SortedKeys 返回升序排列的 key，用于确定性遍历。
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
