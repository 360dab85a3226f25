// Package neighborhood 实现物品-物品邻域协同过滤（Item-Item CF）的评分预测。
package neighborhood

import (
	"math"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/ratekit/core"
)

// DefaultNeighborhoodSize 是默认的邻居数 K。
const DefaultNeighborhoodSize = 20

// Scorer 是候选物品打分器的抽象，ItemItem 是默认实现。
type Scorer interface {
	Score(
		candidates []string,
		history map[string]float64,
		means core.ItemMeanTable,
		neighbors core.NeighborhoodLookup,
	) (*Result, error)
}

// ItemItem 基于物品相似邻域预测用户对候选物品的评分。
//
// 对候选物品 c：
//
//	score(c) = mean(c) + Σ (r(n) - mean(n)) * sim(c, n) / Σ |sim(c, n)|
//
// 其中 n 取自 c 的邻域中用户评过分的前 K 个邻居（相似度降序，itemID 升序）。
// 没有可用邻居的候选不出现在结果中，表示"无法预测"而不是 0 分。
//
// 同一个 ItemItem 可被多个 goroutine 同时使用：它不保存任何请求状态。
type ItemItem struct {
	// K 参与加权的邻居数，<= 0 时使用 DefaultNeighborhoodSize
	K int

	// MinSimilarity 邻居相似度绝对值的下限，0 表示不过滤
	MinSimilarity float64

	// Workers 并发打分的最大 goroutine 数，<= 1 时顺序执行
	Workers int

	// Strict 为 true 时，任一候选缺少物品均值即整批失败；
	// 默认跳过该候选并记录在 Result.Skipped 中
	Strict bool

	Logger  zerolog.Logger
	Metrics *Metrics
}

// Option 配置 ItemItem。
type Option func(*ItemItem)

// WithNeighborhoodSize 设置 K。
func WithNeighborhoodSize(k int) Option {
	return func(s *ItemItem) { s.K = k }
}

// WithMinSimilarity 设置邻居相似度绝对值的下限。
func WithMinSimilarity(v float64) Option {
	return func(s *ItemItem) { s.MinSimilarity = v }
}

// WithWorkers 设置并发数。
func WithWorkers(n int) Option {
	return func(s *ItemItem) { s.Workers = n }
}

// WithStrict 设置缺失均值时整批失败。
func WithStrict(strict bool) Option {
	return func(s *ItemItem) { s.Strict = strict }
}

// WithLogger 设置日志。
func WithLogger(l zerolog.Logger) Option {
	return func(s *ItemItem) { s.Logger = l }
}

// WithMetrics 设置 Prometheus 计数器。
func WithMetrics(m *Metrics) Option {
	return func(s *ItemItem) { s.Metrics = m }
}

// NewItemItem 创建 ItemItem 打分器，默认 K=20、顺序执行、跳过缺失均值的候选。
func NewItemItem(opts ...Option) *ItemItem {
	s := &ItemItem{
		K:      DefaultNeighborhoodSize,
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result 是一次打分调用的结果。
type Result struct {
	// Scores 候选 itemID -> 预测分；无法预测的候选不出现
	Scores map[string]float64

	// Neighbors 每个已打分候选实际使用的邻居数
	Neighbors map[string]int

	// Skipped 因缺少物品均值被跳过的候选（按 itemID 升序）
	Skipped []Skip
}

// Skip 记录一个被跳过的候选及原因。
type Skip struct {
	ItemID string
	Err    error
}

type outcome int

const (
	outcomeScored outcome = iota
	outcomeOmitted
	outcomeSkipped
)

type prediction struct {
	itemID  string
	outcome outcome
	score   float64
	used    int
	err     error
}

// Score 为候选物品打分。
//
// history 是该用户已给出的评分 itemID -> rating；means 是物品均值表；
// neighbors 查询候选的相似邻域（nil 等价于所有邻域为空）。
// 仅在 Strict 模式下因缺失均值返回错误。
func (s *ItemItem) Score(
	candidates []string,
	history map[string]float64,
	means core.ItemMeanTable,
	neighbors core.NeighborhoodLookup,
) (*Result, error) {
	ids := uniqueSorted(candidates)
	preds := make([]prediction, len(ids))
	k := s.neighborhoodSize()

	if s.Workers <= 1 || len(ids) <= 1 {
		for i, id := range ids {
			preds[i] = s.predict(id, history, means, neighbors, k)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.Workers)
		for i, id := range ids {
			g.Go(func() error {
				preds[i] = s.predict(id, history, means, neighbors, k)
				return nil
			})
		}
		_ = g.Wait()
	}

	res := &Result{
		Scores:    make(map[string]float64, len(ids)),
		Neighbors: make(map[string]int, len(ids)),
	}
	var firstErr error
	for _, p := range preds {
		s.Metrics.observe(p.outcome)
		switch p.outcome {
		case outcomeScored:
			res.Scores[p.itemID] = p.score
			res.Neighbors[p.itemID] = p.used
		case outcomeSkipped:
			if firstErr == nil {
				firstErr = p.err
			}
			res.Skipped = append(res.Skipped, Skip{ItemID: p.itemID, Err: p.err})
		}
	}

	if firstErr != nil {
		if s.Strict {
			return nil, firstErr
		}
		for _, sk := range res.Skipped {
			s.Logger.Warn().Str("item_id", sk.ItemID).Str("reason", "missing_item_mean").Err(sk.Err).Msg("skip candidate without item mean")
		}
	}
	s.Logger.Debug().
		Int("candidates", len(ids)).
		Int("scored", len(res.Scores)).
		Int("skipped", len(res.Skipped)).
		Msg("item-item scoring done")

	return res, nil
}

// predict 计算单个候选的预测分。求和顺序固定为邻居选择顺序。
func (s *ItemItem) predict(
	itemID string,
	history map[string]float64,
	means core.ItemMeanTable,
	neighbors core.NeighborhoodLookup,
	k int,
) prediction {
	base, ok := means[itemID]
	if !ok {
		return prediction{itemID: itemID, outcome: outcomeSkipped, err: core.NewMissingItemMean(itemID)}
	}

	var nbrs core.SimilarityNeighborhood
	if neighbors != nil {
		nbrs = neighbors(itemID)
	}
	selected := selectNeighbors(nbrs, history, means, k, s.MinSimilarity)

	var numerator, denominator float64
	for _, n := range selected {
		numerator += (history[n.ItemID] - means[n.ItemID]) * n.Similarity
		denominator += math.Abs(n.Similarity)
	}

	if denominator <= 0 {
		return prediction{itemID: itemID, outcome: outcomeOmitted}
	}
	return prediction{
		itemID:  itemID,
		outcome: outcomeScored,
		score:   base + numerator/denominator,
		used:    len(selected),
	}
}

func (s *ItemItem) neighborhoodSize() int {
	if s.K <= 0 {
		return DefaultNeighborhoodSize
	}
	return s.K
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

var _ Scorer = (*ItemItem)(nil)
