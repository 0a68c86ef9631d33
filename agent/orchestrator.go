package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/history"
	"github.com/kefuflow/kefuflow/internal/ctxkeys"
	"github.com/kefuflow/kefuflow/internal/metrics"
	"github.com/kefuflow/kefuflow/llm"
	"github.com/kefuflow/kefuflow/router"
	"github.com/kefuflow/kefuflow/tools"
	"github.com/kefuflow/kefuflow/types"
	"github.com/kefuflow/kefuflow/worker"
)

// ProcessRequest 是一轮对话的输入。
// 除 TenantID 与 UserMessage 外均可选；显式给定的字段
// 覆盖机器人配置中的同名项。
type ProcessRequest struct {
	TenantID       string
	BotID          string
	KBID           string
	UserMessage    string
	History        []types.Message
	ConversationID string
	UserRole       string

	KBIDs        []string
	SystemPrompt string
	LLMParams    *LLMParams
	// Metadata 是跨轮透传的不透明状态，仅离线 Worker 路径消费。
	Metadata       map[string]any
	HistoryContext string
	RouterContext  string
	// EnabledCapabilities 为 nil 时取机器人配置（或全部能力）；
	// 非 nil 空切片表示零能力快速路径。
	EnabledCapabilities []types.Capability
	RAGTopK             int
	RAGScoreThreshold   float64
}

// Options 是编排器的可选依赖。
type Options struct {
	// Bots 解析机器人配置；为 nil 时请求需自带全部参数。
	Bots BotConfigProvider
	// Strategy 历史压缩策略，为 nil 时使用滑动窗口。
	Strategy      history.Strategy
	HistoryConfig types.HistoryConfig
	// Offline 非 nil 时整轮走离线 Worker 调度链。
	Offline *worker.MetaSupervisor
	// Conversations 非 nil 时在请求未携带历史的情况下加载历史，
	// 并在成功的一轮结束后追加本轮消息。
	Conversations ConversationStore
	Pricing       llm.Pricing
	Metrics       *metrics.Collector
	Logger        *zap.Logger
}

// Orchestrator 编排一轮对话的完整生命周期。
type Orchestrator struct {
	provider   llm.Provider
	router     *router.IntentRouter
	registry   *tools.Registry
	strategy   history.Strategy
	historyCfg types.HistoryConfig
	bots       BotConfigProvider
	offline    *worker.MetaSupervisor
	convs      ConversationStore
	synth      *ResponseSynthesizer
	pricing    llm.Pricing
	metrics    *metrics.Collector
	logger     *zap.Logger
	locks      *conversationLocks
}

// NewOrchestrator 创建编排器。
func NewOrchestrator(provider llm.Provider, registry *tools.Registry, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	strategy := opts.Strategy
	if strategy == nil {
		strategy = history.NewSlidingWindow()
	}
	historyCfg := opts.HistoryConfig
	if historyCfg == (types.HistoryConfig{}) {
		historyCfg = types.DefaultHistoryConfig()
	}
	pricing := opts.Pricing
	if pricing == nil {
		pricing = llm.DefaultPricing()
	}
	return &Orchestrator{
		provider:   provider,
		router:     router.NewIntentRouter(provider, logger),
		registry:   registry,
		strategy:   strategy,
		historyCfg: historyCfg,
		bots:       opts.Bots,
		offline:    opts.Offline,
		convs:      opts.Conversations,
		synth:      NewResponseSynthesizer(provider, logger),
		pricing:    pricing,
		metrics:    opts.Metrics,
		logger:     logger.With(zap.String("component", "orchestrator")),
		locks:      newConversationLocks(),
	}
}

// turn 是一轮对话解析后的有效参数与累计状态。
type turn struct {
	conversationID string
	kbIDs          []string
	systemPrompt   string
	params         LLMParams
	enabled        []types.Capability
	topK           int
	threshold      float64
	historyCtx     string
	routerCtx      string

	usage    types.TokenUsage
	hasUsage bool
}

// addUsage 合并一次 LLM 调用的用量；零成本记录按定价表补算。
func (t *turn) addUsage(o *Orchestrator, u *types.TokenUsage) {
	if u == nil {
		return
	}
	v := *u
	if v.EstimatedCost == 0 {
		v.EstimatedCost = o.pricing.Calculate(v.Model, v.InputTokens, v.OutputTokens).EstimatedCost
	}
	if o.metrics != nil {
		o.metrics.RecordLLMUsage(v.Model, "success", v.InputTokens, v.OutputTokens, v.EstimatedCost)
	}
	t.usage = t.usage.Add(v)
	t.hasUsage = true
}

func (t *turn) usageOrNil() *types.TokenUsage {
	if !t.hasUsage {
		return nil
	}
	u := t.usage
	return &u
}

// prepare 解析机器人配置，校验租户归属与启用状态，随后压缩历史。
// 校验失败在任何 LLM 调用之前返回错误，中止整轮。
func (o *Orchestrator) prepare(ctx context.Context, req *ProcessRequest) (*turn, error) {
	t := &turn{
		conversationID: req.ConversationID,
		kbIDs:          req.KBIDs,
		systemPrompt:   req.SystemPrompt,
		params:         DefaultLLMParams(),
		topK:           req.RAGTopK,
		threshold:      req.RAGScoreThreshold,
	}
	if t.conversationID == "" {
		t.conversationID = uuid.NewString()
	}
	if req.LLMParams != nil {
		t.params = *req.LLMParams
	}

	var bot *BotConfig
	if o.bots != nil && req.BotID != "" {
		var err error
		bot, err = o.bots.GetBot(ctx, req.BotID)
		if err != nil {
			return nil, err
		}
		if err := validateOwnership(bot, req.TenantID); err != nil {
			return nil, err
		}
		if !bot.IsActive {
			return nil, types.NewBotInactiveError(bot.ID)
		}
	}

	if bot != nil {
		if len(t.kbIDs) == 0 {
			t.kbIDs = bot.KnowledgeBaseIDs
		}
		if t.systemPrompt == "" {
			t.systemPrompt = bot.SystemPrompt
		}
		if req.LLMParams == nil {
			t.params = bot.LLMParams
		}
		if t.topK == 0 {
			t.topK = bot.RAGTopK
		}
		if t.threshold == 0 {
			t.threshold = bot.RAGScoreThreshold
		}
	}
	if len(t.kbIDs) == 0 && req.KBID != "" {
		t.kbIDs = []string{req.KBID}
	}

	switch {
	case req.EnabledCapabilities != nil:
		t.enabled = req.EnabledCapabilities
	case bot != nil:
		t.enabled = bot.Capabilities()
	default:
		t.enabled = types.AllCapabilities()
	}

	msgs := req.History
	if len(msgs) == 0 && o.convs != nil && req.ConversationID != "" {
		loaded, err := o.convs.History(ctx, req.TenantID, req.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("load conversation history: %w", err)
		}
		msgs = loaded
	}

	// 历史压缩；调用方已给定压缩结果时直接采用。
	t.historyCtx = req.HistoryContext
	t.routerCtx = req.RouterContext
	if t.historyCtx == "" && len(msgs) > 0 {
		cfg := o.historyCfg
		if t.params.HistoryLimit > 0 {
			cfg.HistoryLimit = t.params.HistoryLimit
		}
		hc, err := o.strategy.Process(ctx, msgs, cfg)
		if err != nil {
			return nil, fmt.Errorf("compact history: %w", err)
		}
		t.historyCtx = hc.RespondContext
		if t.routerCtx == "" {
			t.routerCtx = hc.RouterContext
		}
	}

	return t, nil
}

// Process 同步处理一轮对话。
func (o *Orchestrator) Process(ctx context.Context, req *ProcessRequest) (*types.AgentResponse, error) {
	started := time.Now()
	resp, err := o.process(ctx, req)
	if o.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		o.metrics.RecordTurn(req.TenantID, status, time.Since(started))
	}
	return resp, err
}

func (o *Orchestrator) process(ctx context.Context, req *ProcessRequest) (*types.AgentResponse, error) {
	if o.offline != nil {
		return o.processOffline(ctx, req)
	}

	t, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	ctx = ctxkeys.WithTenantID(ctx, req.TenantID)
	ctx = ctxkeys.WithConversationID(ctx, t.conversationID)

	unlock := o.locks.acquire(t.conversationID)
	defer unlock()

	decision, result := o.routeAndRun(ctx, req, t)

	synthesized, err := o.synth.Synthesize(ctx, SynthesisInput{
		UserMessage:    req.UserMessage,
		HistoryContext: t.historyCtx,
		ToolResult:     result,
		SystemPrompt:   t.systemPrompt,
		Params:         t.params,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize response: %w", err)
	}
	t.addUsage(o, &synthesized.Usage)

	resp := &types.AgentResponse{
		Answer:         synthesized.Text,
		ToolCalls:      toolCallsFor(decision),
		ConversationID: t.conversationID,
		Usage:          t.usageOrNil(),
	}
	if result != nil {
		resp.Sources = result.Sources
	}
	o.persistTurn(ctx, req, t, resp.Answer)
	return resp, nil
}

// persistTurn 把本轮的用户消息与回答追加到对话仓储。
// 回答已经产出，追加失败只记日志，不影响本轮结果。
func (o *Orchestrator) persistTurn(ctx context.Context, req *ProcessRequest, t *turn, answer string) {
	if o.convs == nil {
		return
	}
	err := o.convs.Append(ctx, req.TenantID, t.conversationID,
		types.NewMessage(types.RoleUser, req.UserMessage),
		types.NewMessage(types.RoleAssistant, answer),
	)
	if err != nil {
		o.turnLogger(ctx).Warn("append conversation history failed", zap.Error(err))
	}
}

// routeAndRun 做意图路由并执行选中的工具；direct 与零能力路径返回 nil 结果。
func (o *Orchestrator) routeAndRun(ctx context.Context, req *ProcessRequest, t *turn) (router.Decision, *tools.Result) {
	decision := o.router.Route(ctx, req.UserMessage, t.enabled, t.routerCtx)
	t.addUsage(o, decision.Usage)
	if o.metrics != nil {
		o.metrics.RecordRoutingDecision(string(decision.Capability))
	}

	o.turnLogger(ctx).Debug("intent routed",
		zap.String("capability", string(decision.Capability)),
		zap.String("reasoning", decision.Reasoning))

	if decision.Capability == types.CapabilityDirect {
		return decision, nil
	}

	result := o.registry.Run(ctx, decision.Capability, tools.Invocation{
		TenantID:       req.TenantID,
		KBIDs:          t.kbIDs,
		UserMessage:    req.UserMessage,
		TopK:           t.topK,
		ScoreThreshold: t.threshold,
	})
	t.addUsage(o, result.Usage)
	if o.metrics != nil {
		o.metrics.RecordToolInvocation(string(decision.Capability), result.Success)
	}
	return decision, &result
}

// processOffline 整轮走离线 Worker 调度链。
func (o *Orchestrator) processOffline(ctx context.Context, req *ProcessRequest) (*types.AgentResponse, error) {
	wc := &types.WorkerContext{
		TenantID:            req.TenantID,
		KBID:                req.KBID,
		UserMessage:         req.UserMessage,
		ConversationHistory: req.History,
		UserRole:            req.UserRole,
		Metadata:            req.Metadata,
	}
	return o.offline.Process(ctx, wc)
}

// turnLogger 在组件日志上附加 context 携带的链路字段。
func (o *Orchestrator) turnLogger(ctx context.Context) *zap.Logger {
	logger := o.logger
	if traceID, ok := ctxkeys.TraceID(ctx); ok {
		logger = logger.With(zap.String("trace_id", traceID))
	}
	if conv, ok := ctxkeys.ConversationID(ctx); ok {
		logger = logger.With(zap.String("conversation_id", conv))
	}
	return logger
}

// toolCallsFor 把路由决策记录成工具调用；记录永不丢弃。
func toolCallsFor(decision router.Decision) []types.ToolCallRecord {
	return []types.ToolCallRecord{
		types.NewToolCallRecord(string(decision.Capability), decision.Reasoning),
	}
}
