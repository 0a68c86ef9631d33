// Package kefuflow 提供顶层便捷入口，用最少的样板代码创建编排器。
//
// 使用方法:
//
//	import "github.com/kefuflow/kefuflow"
//
//	orch, err := kefuflow.New(kefuflow.WithProvider(myProvider))
//	orch, err := kefuflow.New(
//	    kefuflow.WithProvider(myProvider),
//	    kefuflow.WithConfig(cfg),
//	)
//
// 本包是 [quick.New] 的薄封装，两者结果一致。
// 偏好更短导入路径时使用本包。
package kefuflow

import (
	"github.com/kefuflow/kefuflow/agent"
	"github.com/kefuflow/kefuflow/quick"
)

// Option 配置 [New] 创建的编排器。
type Option = quick.Option

// New 按配置装配一个 [agent.Orchestrator]。
// 至少需要通过 [WithProvider] 指定一个 LLM Provider。
func New(opts ...Option) (*agent.Orchestrator, error) {
	return quick.New(opts...)
}

// 把 quick/ 的选项重新导出，调用方无需再导入 quick/。

// WithProvider 设置 LLM Provider。必填。
var WithProvider = quick.WithProvider

// WithConfig 设置运行时配置。
var WithConfig = quick.WithConfig

// WithTools 注册能力工具。
var WithTools = quick.WithTools

// WithBots 设置机器人配置解析器。
var WithBots = quick.WithBots

// WithOffline 设置离线 Worker 调度链。
var WithOffline = quick.WithOffline

// WithConversations 设置对话历史仓储。
var WithConversations = quick.WithConversations

// WithMetrics 设置 Prometheus 指标收集器。
var WithMetrics = quick.WithMetrics

// WithLogger 设置日志记录器。
var WithLogger = quick.WithLogger
