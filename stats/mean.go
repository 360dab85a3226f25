// Package stats 提供评分的基础统计，用于按用户或物品基线做均值中心化。
package stats

import "github.com/rushteam/ratekit/core"

// Mean 计算评分序列 Value 的算术平均值。
// 序列为空时返回 core.ErrEmptyHistory：基线无定义，调用方不能继续。
func Mean(ratings []core.Rating) (float64, error) {
	if len(ratings) == 0 {
		return 0, core.ErrEmptyHistory
	}
	var sum float64
	for _, r := range ratings {
		sum += r.Value
	}
	return sum / float64(len(ratings)), nil
}
