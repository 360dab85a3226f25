package neighborhood

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 记录邻域打分的候选物品去向。
type Metrics struct {
	Scored  prometheus.Counter // 成功打分
	Omitted prometheus.Counter // 没有可用邻居，无法预测
	Skipped prometheus.Counter // 缺少物品均值被跳过
}

// NewMetrics 创建并注册计数器；reg 为 nil 时只创建不注册。
// 同一个 reg 上重复调用时复用已注册的计数器。
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Scored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratekit",
			Name:      "candidates_scored_total",
			Help:      "Candidate items that received a neighborhood prediction.",
		}),
		Omitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratekit",
			Name:      "candidates_omitted_total",
			Help:      "Candidate items omitted because no rated neighbor was selected.",
		}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratekit",
			Name:      "candidates_skipped_total",
			Help:      "Candidate items skipped because the item mean table has no entry.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []*prometheus.Counter{&m.Scored, &m.Omitted, &m.Skipped} {
		registered, err := register(reg, *c)
		if err != nil {
			return nil, err
		}
		*c = registered
	}
	return m, nil
}

func register(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("register metrics: %w", err)
}

func (m *Metrics) observe(o outcome) {
	if m == nil {
		return
	}
	switch o {
	case outcomeScored:
		m.Scored.Inc()
	case outcomeOmitted:
		m.Omitted.Inc()
	case outcomeSkipped:
		m.Skipped.Inc()
	}
}
