// Package quick 提供一行式的编排器构建入口。
//
// 内部把 config.Config 装配成 agent.Orchestrator 所需的依赖
// （历史策略、摘要缓存、定价表、工具注册表）。
//
// 使用方法:
//
//	orch, err := quick.New(quick.WithProvider(myProvider))
//	orch, err := quick.New(
//	    quick.WithProvider(myProvider),
//	    quick.WithConfig(cfg),
//	    quick.WithTools(ragTool, orderTool),
//	)
package quick

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/agent"
	"github.com/kefuflow/kefuflow/config"
	"github.com/kefuflow/kefuflow/history"
	"github.com/kefuflow/kefuflow/internal/cache"
	"github.com/kefuflow/kefuflow/internal/metrics"
	"github.com/kefuflow/kefuflow/llm"
	"github.com/kefuflow/kefuflow/tools"
	"github.com/kefuflow/kefuflow/types"
	"github.com/kefuflow/kefuflow/worker"
)

// Option 配置 New 创建的编排器。
type Option func(*options)

type options struct {
	provider llm.Provider
	cfg      *config.Config
	tools    []tools.Tool
	bots     agent.BotConfigProvider
	offline  *worker.MetaSupervisor
	convs    agent.ConversationStore
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// WithProvider 设置 LLM Provider。必填。
func WithProvider(p llm.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithConfig 设置运行时配置。缺省使用 config.DefaultConfig()。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithTools 注册能力工具。
func WithTools(ts ...tools.Tool) Option {
	return func(o *options) { o.tools = append(o.tools, ts...) }
}

// WithBots 设置机器人配置解析器。
func WithBots(bots agent.BotConfigProvider) Option {
	return func(o *options) { o.bots = bots }
}

// WithOffline 设置离线 Worker 调度链，整轮绕过 LLM 主路径。
func WithOffline(offline *worker.MetaSupervisor) Option {
	return func(o *options) { o.offline = offline }
}

// WithConversations 设置对话历史仓储。未设置时历史完全由请求携带。
func WithConversations(convs agent.ConversationStore) Option {
	return func(o *options) { o.convs = convs }
}

// WithMetrics 设置 Prometheus 指标收集器。
func WithMetrics(m *metrics.Collector) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger 设置日志记录器。缺省为 zap.NewNop()。
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New 按配置装配一个编排器。
func New(opts ...Option) (*agent.Orchestrator, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.provider == nil {
		return nil, fmt.Errorf("provider is required: use WithProvider")
	}
	if o.cfg == nil {
		o.cfg = config.DefaultConfig()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	strategy, err := buildStrategy(o)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry(o.logger, o.tools...)

	return agent.NewOrchestrator(o.provider, registry, agent.Options{
		Bots:     o.bots,
		Strategy: strategy,
		HistoryConfig: types.HistoryConfig{
			HistoryLimit:       o.cfg.History.HistoryLimit,
			RecentTurns:        o.cfg.History.RecentTurns,
			SummaryMaxTokens:   o.cfg.History.SummaryMaxTokens,
			RouterContextLimit: o.cfg.History.RouterContextLimit,
		},
		Offline:       o.offline,
		Conversations: o.convs,
		Pricing:       buildPricing(o.cfg),
		Metrics:       o.metrics,
		Logger:        o.logger,
	}), nil
}

// buildStrategy 按配置创建历史压缩策略及其缓存依赖。
func buildStrategy(o *options) (history.Strategy, error) {
	strategyType := history.StrategyType(o.cfg.History.Strategy)

	var summaryCache cache.Cache
	if strategyType == history.StrategySummaryRecent {
		switch o.cfg.Cache.Type {
		case "redis":
			c, err := cache.NewRedis(cache.Config{
				Addr:       o.cfg.Cache.Redis.Addr,
				Password:   o.cfg.Cache.Redis.Password,
				DB:         o.cfg.Cache.Redis.DB,
				DefaultTTL: o.cfg.Cache.TTL,
				PoolSize:   o.cfg.Cache.Redis.PoolSize,
			}, o.logger)
			if err != nil {
				return nil, fmt.Errorf("create summary cache: %w", err)
			}
			summaryCache = c
		default:
			summaryCache = cache.NewMemory(o.cfg.Cache.TTL)
		}
	}

	strategy, err := history.New(strategyType, history.Deps{
		Provider: o.provider,
		Cache:    summaryCache,
		Logger:   o.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create history strategy: %w", err)
	}
	return strategy, nil
}

// buildPricing 在内置定价表上应用配置覆盖。
func buildPricing(cfg *config.Config) llm.Pricing {
	pricing := llm.DefaultPricing()
	for model, price := range cfg.LLM.Pricing {
		pricing[model] = llm.ModelPrice{Input: price.Input, Output: price.Output}
	}
	return pricing
}
