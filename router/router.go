package router

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/llm"
	"github.com/kefuflow/kefuflow/types"
)

// 关键字快速路由（LLM fallback 前），按声明顺序匹配。
var keywordRules = []struct {
	capability types.Capability
	pattern    *regexp.Regexp
	reasoning  string
}{
	{
		capability: types.CapabilityDirect,
		pattern:    regexp.MustCompile(`(?i)\b(hello|hi|hey|thanks|thank you)\b|你好|您好|嗨|哈喽|谢谢|再见`),
		reasoning:  "简单寒暄，直接回答",
	},
	{
		capability: types.CapabilityOrderLookup,
		pattern:    regexp.MustCompile(`(?i)ord-|\border\b|订单|訂單|物流|配送|送达|送達|到哪`),
		reasoning:  "用户查询订单状态",
	},
	{
		capability: types.CapabilityTicketCreation,
		pattern:    regexp.MustCompile(`(?i)\b(ticket|complaint)\b|投诉|投訴|客诉|客訴|抱怨|工单|工單|申诉|申訴`),
		reasoning:  "用户需要建立客服工单",
	},
	{
		capability: types.CapabilityProductSearch,
		pattern:    regexp.MustCompile(`(?i)\bproduct\b|商品|产品|產品|搜寻|搜尋|推荐|推薦|电子|電子`),
		reasoning:  "用户搜索商品",
	},
}

// 能力描述，用于生成分类提示词。
var capabilityDescriptions = map[types.Capability]string{
	types.CapabilityOrderLookup:    "查询订单状态（含订单号、物流、配送）",
	types.CapabilityProductSearch:  "搜索商品（含产品推荐、商品查询）",
	types.CapabilityTicketCreation: "建立客服工单（含投诉、申诉、问题回报）",
	types.CapabilityRAGQuery:       "查询知识库（退货政策、使用说明等知识型问题）",
}

// Decision 是一次意图分类的结果。
type Decision struct {
	Capability types.Capability
	Reasoning  string
	// Usage 是分类期间累计的 LLM 用量；未调用 LLM 时为 nil。
	// 分类失败走 fallback 时仍会带出已累计的用量。
	Usage *types.TokenUsage
}

// classification 是 LLM 分类响应的严格解析类型。
// 未知或缺失字段不抛错，而是触发既定 fallback。
type classification struct {
	Tool      string `json:"tool"`
	Reasoning string `json:"reasoning"`
}

// IntentRouter 把用户消息分类到一个能力名。
type IntentRouter struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewIntentRouter 创建意图路由器。
func NewIntentRouter(provider llm.Provider, logger *zap.Logger) *IntentRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentRouter{
		provider: provider,
		logger:   logger.With(zap.String("component", "intent_router")),
	}
}

// Route 对用户消息做意图分类。enabled 是已启用的工具型能力集合
// （不含 direct）；routerContext 是压缩后的精简历史上下文。
//
// 分类错误不会向上抛：解析失败回落到 rag_query，
// 其余错误回落到 direct，两者都保留已累计的 usage。
func (r *IntentRouter) Route(ctx context.Context, userMessage string, enabled []types.Capability, routerContext string) Decision {
	// 无可用工具时只能直接回答。
	if len(enabled) == 0 {
		return Decision{Capability: types.CapabilityDirect, Reasoning: "无已启用工具"}
	}

	// 1. 单一能力短路。
	if len(enabled) == 1 {
		return Decision{
			Capability: enabled[0],
			Reasoning:  "仅启用了一个能力",
		}
	}

	enabledSet := make(map[types.Capability]bool, len(enabled))
	for _, c := range enabled {
		enabledSet[c] = true
	}

	// 2. 有序关键字规则；命中但未启用的能力直接丢弃。
	for _, rule := range keywordRules {
		if !rule.pattern.MatchString(userMessage) {
			continue
		}
		if rule.capability == types.CapabilityDirect || enabledSet[rule.capability] {
			return Decision{Capability: rule.capability, Reasoning: rule.reasoning}
		}
	}

	// 3. LLM 意图分类。
	return r.classify(ctx, userMessage, enabled, enabledSet, routerContext)
}

func (r *IntentRouter) classify(ctx context.Context, userMessage string, enabled []types.Capability, enabledSet map[types.Capability]bool, routerContext string) Decision {
	result, err := r.provider.Generate(ctx, &llm.GenerateRequest{
		SystemPrompt: buildRouterPrompt(enabled),
		UserMessage:  userMessage,
		Context:      routerContext,
	})
	if err != nil {
		// 传输层错误：fail open，直接作答。
		r.logger.Warn("intent classification failed, falling back to direct",
			zap.Error(err))
		return Decision{
			Capability: types.CapabilityDirect,
			Reasoning:  "分类失败，直接回答",
		}
	}

	usage := result.Usage

	var parsed classification
	text := stripCodeFence(result.Text)
	if err := json.Unmarshal([]byte(text), &parsed); err != nil || parsed.Tool == "" {
		// 解析失败：刻意偏向尝试知识库查询。
		r.logger.Warn("classification response unparsable, falling back to rag_query",
			zap.String("response", result.Text))
		return Decision{
			Capability: types.CapabilityRAGQuery,
			Reasoning:  "预设走知识库查询",
			Usage:      &usage,
		}
	}

	capability := types.Capability(parsed.Tool)
	if capability != types.CapabilityDirect && !enabledSet[capability] {
		// 集合外的 tool 钳制到第一个已启用能力。
		r.logger.Debug("classified tool outside enabled set, clamping",
			zap.String("tool", parsed.Tool),
			zap.String("clamped_to", string(enabled[0])))
		capability = enabled[0]
	}

	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = "LLM 意图分类"
	}

	return Decision{Capability: capability, Reasoning: reasoning, Usage: &usage}
}

// buildRouterPrompt 生成分类提示词，只枚举已启用能力加 direct。
func buildRouterPrompt(enabled []types.Capability) string {
	var b strings.Builder
	b.WriteString("你是一个客服意图分类器。根据用户消息，判断应该使用哪个工具。\n")
	b.WriteString(`返回 JSON 格式：{"tool": "<tool_name>", "reasoning": "<原因>"}` + "\n\n")
	b.WriteString("可用工具：\n")
	for _, c := range enabled {
		fmt.Fprintf(&b, "- %s: %s\n", c, capabilityDescriptions[c])
	}
	b.WriteString("- direct: 直接回答（简单寒暄、无需工具）")
	return b.String()
}

// stripCodeFence 剥除响应外层的 Markdown 代码围栏。
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// 围栏可能带语言标签，如 ```json。
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
