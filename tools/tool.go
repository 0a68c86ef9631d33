package tools

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/types"
)

// Result 是工具调用的统一结果。失败作为数据返回，不作为 error。
type Result struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	// Sources 是 RAG 类工具附带的来源引用。
	Sources []types.Source `json:"sources,omitempty"`
	// Usage 是工具内部 LLM 调用的用量，由调用方合并，不参与序列化。
	Usage *types.TokenUsage `json:"-"`
}

// Invocation 是一次工具调用的输入。
type Invocation struct {
	TenantID       string
	KBIDs          []string
	UserMessage    string
	TopK           int
	ScoreThreshold float64
}

// Tool 是能力工具的统一接口。
type Tool interface {
	Name() types.Capability
	Invoke(ctx context.Context, inv Invocation) Result
}

// orderIDPattern 匹配订单号形状的 token，如 ORD-12345。
var orderIDPattern = regexp.MustCompile(`[Oo][Rr][Dd]-?\d+`)

// ExtractOrderID 从文本中提取第一个订单号形状的 token，未找到返回空串。
func ExtractOrderID(text string) string {
	return orderIDPattern.FindString(text)
}

// Registry 按能力名分发工具调用。
type Registry struct {
	tools  map[types.Capability]Tool
	logger *zap.Logger
}

// NewRegistry 创建工具注册表。
func NewRegistry(logger *zap.Logger, tools ...Tool) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		tools:  make(map[types.Capability]Tool, len(tools)),
		logger: logger.With(zap.String("component", "tool_registry")),
	}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// Register 注册工具，同名覆盖。
func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

// Has 报告某能力是否已注册工具。
func (r *Registry) Has(capability types.Capability) bool {
	_, ok := r.tools[capability]
	return ok
}

// Run 分发到对应工具。未注册的能力返回结构化的「未启用」结果。
func (r *Registry) Run(ctx context.Context, capability types.Capability, inv Invocation) Result {
	t, ok := r.tools[capability]
	if !ok {
		r.logger.Warn("capability has no registered tool",
			zap.String("capability", string(capability)))
		return Result{
			Success: false,
			Error:   fmt.Sprintf("工具 %s 未启用", capability),
			Data: map[string]any{
				"tool":     string(capability),
				"disabled": true,
			},
		}
	}
	return t.Invoke(ctx, inv)
}
