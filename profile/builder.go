// Package profile 根据用户评分构建内容口味画像。
package profile

import (
	"math"
	"sort"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/stats"
)

// Builder 是用户画像构建器的抽象，Weighted 是默认实现。
type Builder interface {
	Build(ratings []core.Rating) (core.UserProfile, error)
}

// Weighted 用偏好加权的物品内容向量之和表示用户画像。
//
// 算法流程：
//  1. mean = 用户评分均值
//  2. weight = rating - mean（正：高于平均的偏好，负：低于平均 / 不喜欢）
//  3. profile[term] += weight * vector[term]
//
// 缺少内容向量的物品不贡献任何 term，不视为错误。
type Weighted struct {
	// Vectors 查询物品内容向量；为 nil 时所有物品都视为无内容
	Vectors core.VectorLookup
}

// NewWeighted 创建一个基于 lookup 的加权画像构建器。
func NewWeighted(lookup core.VectorLookup) *Weighted {
	return &Weighted{Vectors: lookup}
}

// Build 构建用户画像。ratings 为空时返回 core.ErrEmptyHistory。
//
// 累加顺序固定为 (ItemID, Value) 升序、term 升序，
// 输入顺序不同的同一组评分得到逐位相同的结果。
func (b *Weighted) Build(ratings []core.Rating) (core.UserProfile, error) {
	mean, err := stats.Mean(ratings)
	if err != nil {
		return nil, err
	}

	ordered := make([]core.Rating, len(ratings))
	copy(ordered, ratings)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ItemID != ordered[j].ItemID {
			return ordered[i].ItemID < ordered[j].ItemID
		}
		return ordered[i].Value < ordered[j].Value
	})

	profile := make(core.UserProfile)
	for _, r := range ordered {
		weight := r.Value - mean
		if weight == 0 || b.Vectors == nil {
			continue
		}
		vector := b.Vectors(r.ItemID)
		for _, term := range core.SortedKeys(vector) {
			w := vector[term]
			if w == 0 {
				continue
			}
			profile[term] += weight * w
		}
	}
	return profile, nil
}

// Match 计算用户画像与物品向量的余弦相似度，任一范数为 0 时返回 0。
func Match(p core.UserProfile, v core.FeatureVector) float64 {
	if len(p) == 0 || len(v) == 0 {
		return 0
	}

	var dot, normP, normV float64
	for _, term := range core.SortedKeys(p) {
		w := p[term]
		normP += w * w
		dot += w * v[term]
	}
	for _, term := range core.SortedKeys(v) {
		normV += v[term] * v[term]
	}

	if normP == 0 || normV == 0 {
		return 0
	}
	return dot / (math.Sqrt(normP) * math.Sqrt(normV))
}

var _ Builder = (*Weighted)(nil)
