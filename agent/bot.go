package agent

import (
	"context"

	"github.com/kefuflow/kefuflow/types"
)

// LLMParams 是机器人的生成参数。
type LLMParams struct {
	Temperature      float32 `yaml:"temperature" json:"temperature"`
	MaxTokens        int     `yaml:"max_tokens" json:"max_tokens"`
	HistoryLimit     int     `yaml:"history_limit" json:"history_limit"`
	FrequencyPenalty float32 `yaml:"frequency_penalty" json:"frequency_penalty"`
}

// DefaultLLMParams 返回默认生成参数。
func DefaultLLMParams() LLMParams {
	return LLMParams{
		Temperature:  0.3,
		MaxTokens:    1024,
		HistoryLimit: 10,
	}
}

// BotConfig 是一个机器人的运行配置。
type BotConfig struct {
	ID       string `yaml:"id" json:"id"`
	TenantID string `yaml:"tenant_id" json:"tenant_id"`
	Name     string `yaml:"name" json:"name"`
	// IsActive 为 false 的机器人拒绝处理请求。
	IsActive     bool   `yaml:"is_active" json:"is_active"`
	SystemPrompt string `yaml:"system_prompt" json:"system_prompt"`

	KnowledgeBaseIDs []string  `yaml:"knowledge_base_ids" json:"knowledge_base_ids"`
	LLMParams        LLMParams `yaml:"llm_params" json:"llm_params"`

	// EnabledCapabilities 为 nil 表示启用全部能力；
	// 非 nil 空切片表示全部禁用（零能力快速路径）。
	EnabledCapabilities []types.Capability `yaml:"enabled_capabilities" json:"enabled_capabilities"`

	RAGTopK           int     `yaml:"rag_top_k" json:"rag_top_k"`
	RAGScoreThreshold float64 `yaml:"rag_score_threshold" json:"rag_score_threshold"`
}

// Capabilities 解析已启用能力：nil ⇒ 全部，非 nil 空 ⇒ 无。
func (b *BotConfig) Capabilities() []types.Capability {
	if b.EnabledCapabilities == nil {
		return types.AllCapabilities()
	}
	return b.EnabledCapabilities
}

// BotConfigProvider 按机器人 ID 解析配置，由调用方实现。
type BotConfigProvider interface {
	GetBot(ctx context.Context, botID string) (*BotConfig, error)
}

// validateOwnership 校验机器人属于该租户。
// 在任何 LLM 调用之前执行；失败中止整轮。
func validateOwnership(bot *BotConfig, tenantID string) error {
	if bot.TenantID != "" && bot.TenantID != tenantID {
		return types.NewBotOwnershipError(bot.ID, tenantID)
	}
	return nil
}
