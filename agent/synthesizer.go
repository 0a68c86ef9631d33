package agent

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/llm"
	"github.com/kefuflow/kefuflow/tools"
)

// defaultPersonaPrompt 是机器人未配置系统提示词时的默认人设。
const defaultPersonaPrompt = "你是一个专业的电商客服助手。" +
	"根据工具返回的结果，用友善的语气回答用户的问题。" +
	"请确保回答准确、完整且有帮助。"

// SynthesisInput 是一次回答合成的输入。
type SynthesisInput struct {
	UserMessage string
	// HistoryContext 是压缩后的历史文本，可为空。
	HistoryContext string
	// ToolResult 是本轮工具结果，direct 路径为 nil。
	ToolResult   *tools.Result
	SystemPrompt string
	Params       LLMParams
}

// ResponseSynthesizer 把历史块、工具结果块与系统提示词
// 组装成一个提示并发起一次 LLM 调用。
type ResponseSynthesizer struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewResponseSynthesizer 创建回答合成器。
func NewResponseSynthesizer(provider llm.Provider, logger *zap.Logger) *ResponseSynthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseSynthesizer{
		provider: provider,
		logger:   logger.With(zap.String("component", "synthesizer")),
	}
}

// Synthesize 同步合成最终回答。
func (s *ResponseSynthesizer) Synthesize(ctx context.Context, in SynthesisInput) (*llm.GenerateResult, error) {
	return s.provider.Generate(ctx, s.buildRequest(in))
}

// SynthesizeStream 流式合成最终回答。
func (s *ResponseSynthesizer) SynthesizeStream(ctx context.Context, in SynthesisInput) (<-chan llm.StreamChunk, error) {
	return s.provider.GenerateStream(ctx, s.buildRequest(in))
}

func (s *ResponseSynthesizer) buildRequest(in SynthesisInput) *llm.GenerateRequest {
	systemPrompt := strings.TrimSpace(in.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultPersonaPrompt
	}

	var blocks []string
	if in.HistoryContext != "" {
		blocks = append(blocks, "对话历史：\n"+in.HistoryContext)
	}
	if in.ToolResult != nil {
		encoded, err := json.Marshal(in.ToolResult)
		if err != nil {
			s.logger.Warn("tool result marshal failed", zap.Error(err))
		} else {
			blocks = append(blocks, "工具结果：\n"+string(encoded))
		}
	}

	return &llm.GenerateRequest{
		SystemPrompt:     systemPrompt,
		UserMessage:      in.UserMessage,
		Context:          strings.Join(blocks, "\n\n"),
		MaxTokens:        in.Params.MaxTokens,
		Temperature:      in.Params.Temperature,
		FrequencyPenalty: in.Params.FrequencyPenalty,
	}
}
