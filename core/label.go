package core

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // rank / filter / rerank ...
}

// MergeLabel 合并同名 Label：Value 以 '|' 累积，Source 以 ',' 累积；
// 与已有值完全相同的 incoming 不重复追加。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" || incoming == existing {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "" || incoming.Source == existing.Source:
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
