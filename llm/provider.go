package llm

import (
	"context"

	"github.com/kefuflow/kefuflow/types"
)

// GenerateRequest 是一次 LLM 生成请求。
// Context 携带工具结果或检索内容等附加上下文，可为空。
type GenerateRequest struct {
	Model        string  `json:"model,omitempty"`
	SystemPrompt string  `json:"system_prompt"`
	UserMessage  string  `json:"user_message"`
	Context      string  `json:"context,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float32 `json:"temperature,omitempty"`
	// FrequencyPenalty 透传机器人配置的频率惩罚，零值不生效。
	FrequencyPenalty float32 `json:"frequency_penalty,omitempty"`
}

// GenerateResult 是同步生成的结果。
type GenerateResult struct {
	Text  string           `json:"text"`
	Usage types.TokenUsage `json:"usage"`
}

// StreamChunk 是流式生成的增量。通道关闭表示序列结束；
// 末尾 chunk 可携带整段生成的 Usage。
type StreamChunk struct {
	Token string            `json:"token,omitempty"`
	Usage *types.TokenUsage `json:"usage,omitempty"`
	Err   error             `json:"-"`
}

// Provider 定义统一的语言模型接口。
// 实现方负责重试与降级；编排核心不做内部重试，
// 上下文取消时直接丢弃在途调用。
type Provider interface {
	// Name 返回 Provider 的唯一标识。
	Name() string

	// Generate 发起同步生成请求。
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// GenerateStream 发起流式生成请求，返回增量通道。
	// 返回的序列是惰性、有限且不可重放的。
	GenerateStream(ctx context.Context, req *GenerateRequest) (<-chan StreamChunk, error)
}
