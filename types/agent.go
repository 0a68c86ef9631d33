package types

// Capability 是封闭的能力集合：一轮对话中 agent 可以采取的动作。
type Capability string

const (
	CapabilityRAGQuery       Capability = "rag_query"
	CapabilityOrderLookup    Capability = "order_lookup"
	CapabilityProductSearch  Capability = "product_search"
	CapabilityTicketCreation Capability = "ticket_creation"
	// CapabilityDirect 表示不调用任何工具，直接回答。
	CapabilityDirect Capability = "direct"
)

// AllCapabilities 返回全部工具型能力（不含 direct）。
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityRAGQuery,
		CapabilityOrderLookup,
		CapabilityProductSearch,
		CapabilityTicketCreation,
	}
}

// IsValid 判断是否属于封闭集合。
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityRAGQuery, CapabilityOrderLookup,
		CapabilityProductSearch, CapabilityTicketCreation, CapabilityDirect:
		return true
	}
	return false
}

// RefundStep 表示退货工作流的步骤。
// 步骤跨轮存放在不透明 metadata 中由调用方透传，没有独立的会话存储。
type RefundStep string

const (
	RefundStepCollectOrder  RefundStep = "collect_order"
	RefundStepCollectReason RefundStep = "collect_reason"
	RefundStepConfirm       RefundStep = "confirm"
)

// MetaKeyRefundStep 是 metadata 中退货步骤的键。
const MetaKeyRefundStep = "refund_step"

// ParseRefundStep 从 metadata 值解析步骤；非法值返回 false。
func ParseRefundStep(v any) (RefundStep, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	step := RefundStep(s)
	switch step {
	case RefundStepCollectOrder, RefundStepCollectReason, RefundStepConfirm:
		return step, true
	}
	return "", false
}

// DefaultUserRole 是未指定角色时的默认值。
const DefaultUserRole = "customer"

// WorkerContext 是 Worker 调度链的统一输入。
type WorkerContext struct {
	TenantID            string
	KBID                string
	UserMessage         string
	ConversationHistory []Message
	UserRole            string
	// Metadata 是跨轮透传的不透明状态（如工作流步骤）。
	Metadata        map[string]any
	UserPermissions []string
	MCPTools        []string
}

// Role 返回上下文角色，空值回落到 DefaultUserRole。
func (c *WorkerContext) Role() string {
	if c.UserRole == "" {
		return DefaultUserRole
	}
	return c.UserRole
}

// MetaValue 读取 metadata 值；metadata 为 nil 时返回 nil。
func (c *WorkerContext) MetaValue(key string) any {
	if c.Metadata == nil {
		return nil
	}
	return c.Metadata[key]
}

// WorkerResult 是 Worker 调度链的统一输出。
// Metadata 会原样整体替换（而非合并）下一轮的 WorkerContext.Metadata。
type WorkerResult struct {
	Answer    string
	ToolCalls []ToolCallRecord
	Sources   []Source
	Usage     *TokenUsage
	Metadata  map[string]any
}

// SentimentResult 表示情绪检测结果。
type SentimentResult struct {
	Sentiment      string  `json:"sentiment"` // positive / neutral / negative
	Score          float64 `json:"score"`
	ShouldEscalate bool    `json:"should_escalate"`
}

// AgentResponse 是编排器处理一轮对话后的统一返回体。
type AgentResponse struct {
	Answer         string           `json:"answer"`
	ToolCalls      []ToolCallRecord `json:"tool_calls,omitempty"`
	Sources        []Source         `json:"sources,omitempty"`
	ConversationID string           `json:"conversation_id"`
	Usage          *TokenUsage      `json:"usage,omitempty"`
	RefundStep     string           `json:"refund_step,omitempty"`
	Sentiment      string           `json:"sentiment,omitempty"`
	Escalated      bool             `json:"escalated"`
}

// HistoryContext 是历史压缩策略的输出。
type HistoryContext struct {
	// RespondContext 供回答合成使用的完整上下文。
	RespondContext string `json:"respond_context"`
	// RouterContext 供意图分类使用的精简上下文。
	RouterContext string `json:"router_context"`
	MessageCount  int    `json:"message_count"`
	StrategyName  string `json:"strategy_name"`
}

// HistoryConfig 是历史压缩策略的配置。
type HistoryConfig struct {
	HistoryLimit       int `yaml:"history_limit" json:"history_limit"`
	RecentTurns        int `yaml:"recent_turns" json:"recent_turns"`
	SummaryMaxTokens   int `yaml:"summary_max_tokens" json:"summary_max_tokens"`
	RouterContextLimit int `yaml:"router_context_limit" json:"router_context_limit"`
}

// DefaultHistoryConfig 返回默认历史压缩配置。
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		HistoryLimit:       10,
		RecentTurns:        3,
		SummaryMaxTokens:   200,
		RouterContextLimit: 3,
	}
}
