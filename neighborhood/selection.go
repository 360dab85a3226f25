package neighborhood

import (
	"math"
	"sort"

	"github.com/rushteam/ratekit/core"
)

// neighbor 是一个已被用户评分过的相似物品。
type neighbor struct {
	ItemID     string
	Similarity float64
}

// selectNeighbors 从 candidate 的邻域中挑出用户评过分、且有均值的邻居，
// 按 (similarity 降序, itemID 升序) 排序后取前 k 个。
// 非有限值的相似度以及 |similarity| < minSim 的邻居不参与选择。
//
// 排序对象是 (similarity, itemID) 对本身：相似度相同的不同邻居不会被合并，
// 结果恰好包含 min(k, 可用数) 个不同邻居。
func selectNeighbors(
	nbrs core.SimilarityNeighborhood,
	history map[string]float64,
	means core.ItemMeanTable,
	k int,
	minSim float64,
) []neighbor {
	rated := make([]neighbor, 0, len(nbrs))
	for id, sim := range nbrs {
		if math.IsNaN(sim) || math.IsInf(sim, 0) || math.Abs(sim) < minSim {
			continue
		}
		if _, ok := history[id]; !ok {
			continue
		}
		if _, ok := means[id]; !ok {
			continue
		}
		rated = append(rated, neighbor{ItemID: id, Similarity: sim})
	}

	sort.Slice(rated, func(i, j int) bool {
		if rated[i].Similarity != rated[j].Similarity {
			return rated[i].Similarity > rated[j].Similarity
		}
		return rated[i].ItemID < rated[j].ItemID
	})

	if k > 0 && len(rated) > k {
		rated = rated[:k]
	}
	return rated
}
