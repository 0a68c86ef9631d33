package types

// TokenUsage 表示一次或多次 LLM 调用的 token 用量统计。
//
// Add 对所有数值字段做简单加法，满足结合律与交换律；
// Model 字段保留第一个非空值（即本轮第一次设置它的调用）。
type TokenUsage struct {
	Model         string  `json:"model"`
	InputTokens   int     `json:"input_tokens"`
	OutputTokens  int     `json:"output_tokens"`
	TotalTokens   int     `json:"total_tokens"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// ZeroUsage 返回指定模型的零用量。
func ZeroUsage(model string) TokenUsage {
	return TokenUsage{Model: model}
}

// Add 合并另一份用量，返回新值，不修改接收者。
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	model := u.Model
	if model == "" {
		model = other.Model
	}
	return TokenUsage{
		Model:         model,
		InputTokens:   u.InputTokens + other.InputTokens,
		OutputTokens:  u.OutputTokens + other.OutputTokens,
		TotalTokens:   u.TotalTokens + other.TotalTokens,
		EstimatedCost: u.EstimatedCost + other.EstimatedCost,
	}
}

// IsZero 判断是否为空用量（所有数值字段为零）。
func (u TokenUsage) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0 &&
		u.TotalTokens == 0 && u.EstimatedCost == 0
}

// Source 表示 RAG 回答的来源引用。
type Source struct {
	DocumentName   string  `json:"document_name"`
	ContentSnippet string  `json:"content_snippet"`
	Score          float64 `json:"score"`
	ChunkID        string  `json:"chunk_id"`
}
