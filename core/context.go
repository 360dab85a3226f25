package core

// RecommendContext 承载单个用户一次请求的信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string
	Scene  string

	// Ratings 是该用户的评分序列。
	// 为空时由 Node 通过 RatingStore 按 UserID 拉取。
	Ratings []Rating

	// Labels 是用户级标签，例如 cold_start；CEL 中以 rctx.labels 访问
	Labels map[string]Label

	// Params 请求级参数，可在 CEL 表达式中以 rctx.params 访问
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
