package llm

import "github.com/kefuflow/kefuflow/types"

// ModelPrice 是单个模型的定价，单位 USD per 1M tokens。
type ModelPrice struct {
	Input  float64 `yaml:"input" json:"input"`
	Output float64 `yaml:"output" json:"output"`
}

// Pricing 是模型名到定价的映射。
type Pricing map[string]ModelPrice

// DefaultPricing 返回内置定价表。未列出的模型按零价计费。
func DefaultPricing() Pricing {
	return Pricing{
		"gpt-4o":            {Input: 2.5, Output: 10.0},
		"gpt-4o-mini":       {Input: 0.15, Output: 0.6},
		"claude-sonnet-4-5": {Input: 3.0, Output: 15.0},
		"claude-haiku-4-5":  {Input: 0.8, Output: 4.0},
		"glm-4":             {Input: 1.4, Output: 1.4},
	}
}

// Calculate 根据定价表把原始 token 计数换算成 TokenUsage。
func (p Pricing) Calculate(model string, inputTokens, outputTokens int) types.TokenUsage {
	price := p[model]
	cost := float64(inputTokens)*price.Input/1_000_000 +
		float64(outputTokens)*price.Output/1_000_000

	return types.TokenUsage{
		Model:         model,
		InputTokens:   inputTokens,
		OutputTokens:  outputTokens,
		TotalTokens:   inputTokens + outputTokens,
		EstimatedCost: cost,
	}
}
