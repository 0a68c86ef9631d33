package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector 指标收集器。
type Collector struct {
	// 对话轮次指标
	turnsTotal       *prometheus.CounterVec
	turnDuration     *prometheus.HistogramVec
	routingDecisions *prometheus.CounterVec

	// LLM 指标
	llmRequestsTotal *prometheus.CounterVec
	llmTokensUsed    *prometheus.CounterVec
	llmCost          *prometheus.CounterVec

	// 工具指标
	toolInvocations *prometheus.CounterVec

	// 缓存指标
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器。
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// 对话轮次指标
	c.turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_turns_total",
			Help:      "Total number of agent turns processed",
		},
		[]string{"tenant", "status"},
	)

	c.turnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_turn_duration_seconds",
			Help:      "Agent turn duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tenant"},
	)

	c.routingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routing_decisions_total",
			Help:      "Total number of intent routing decisions",
		},
		[]string{"capability"},
	)

	// LLM 指标
	c.llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM requests",
		},
		[]string{"model", "status"},
	)

	c.llmTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_used_total",
			Help:      "Total number of tokens used",
		},
		[]string{"model", "type"}, // type: prompt, completion
	)

	c.llmCost = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_cost_total",
			Help:      "Total LLM cost in USD",
		},
		[]string{"model"},
	)

	// 工具指标
	c.toolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_invocations_total",
			Help:      "Total number of capability tool invocations",
		},
		[]string{"tool", "status"},
	)

	// 缓存指标
	c.cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	c.cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	c.logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// RecordTurn 记录一轮对话。
func (c *Collector) RecordTurn(tenant, status string, duration time.Duration) {
	c.turnsTotal.WithLabelValues(tenant, status).Inc()
	c.turnDuration.WithLabelValues(tenant).Observe(duration.Seconds())
}

// RecordRoutingDecision 记录一次路由决策。
func (c *Collector) RecordRoutingDecision(capability string) {
	c.routingDecisions.WithLabelValues(capability).Inc()
}

// RecordLLMUsage 记录一次 LLM 调用的用量。
func (c *Collector) RecordLLMUsage(model, status string, promptTokens, completionTokens int, cost float64) {
	c.llmRequestsTotal.WithLabelValues(model, status).Inc()
	c.llmTokensUsed.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	c.llmTokensUsed.WithLabelValues(model, "completion").Add(float64(completionTokens))
	c.llmCost.WithLabelValues(model).Add(cost)
}

// RecordToolInvocation 记录一次工具调用。
func (c *Collector) RecordToolInvocation(tool string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	c.toolInvocations.WithLabelValues(tool, status).Inc()
}

// RecordCacheHit 记录缓存命中。
func (c *Collector) RecordCacheHit(cacheType string) {
	c.cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss 记录缓存未命中。
func (c *Collector) RecordCacheMiss(cacheType string) {
	c.cacheMisses.WithLabelValues(cacheType).Inc()
}
