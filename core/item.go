package core

// Item 是推荐链路中的统一承载结构：候选物品 ID、预测分、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Meta:   make(map[string]any),
		Labels: make(map[string]Label),
	}
}

// NewItems 为一组候选 ID 创建 Item，保持输入顺序。
func NewItems(ids ...string) []*Item {
	items := make([]*Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, NewItem(id))
	}
	return items
}

// PutLabel 写入 Label；若已存在同名 key，则按 MergeLabel 规则累积。
func (it *Item) PutLabel(key string, lbl Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// ItemIDs 返回 items 的 ID 列表（跳过 nil）。
func ItemIDs(items []*Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}
	return ids
}
