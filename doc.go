// Package ratekit 是一个基于评分历史的个性化打分工具包。
//
// 设计要点：
// - 两种打分核心：偏好加权的内容画像（profile）与物品邻域协同过滤（neighborhood）
// - 模型数据只读：特征向量、物品相似邻域、物品均值都通过查询函数提供
// - Pipeline-first: 打分核心以 Node 接入 Pipeline（Rank → Filter → ReRank），可由 YAML 配置驱动
package ratekit

import (
	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/neighborhood"
	"github.com/rushteam/ratekit/pipeline"
)

// 轻量 facade：便于用户直接 import "ratekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

type Rating = core.Rating
type FeatureVector = core.FeatureVector
type UserProfile = core.UserProfile
type SimilarityNeighborhood = core.SimilarityNeighborhood
type ItemMeanTable = core.ItemMeanTable

type ItemItem = neighborhood.ItemItem

const (
	KindRank   = pipeline.KindRank
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
