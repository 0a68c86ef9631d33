// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package types 提供 kefuflow 编排核心的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 agent、router、history、
worker、tools 等上层模块提供统一的类型契约。所有跨包共享的结构体、
枚举和错误码均定义于此，以避免循环依赖。

# 核心类型

  - Message / Conversation — 对话消息与会话快照（每轮追加一条用户消息和一条助手消息）
  - Capability             — 封闭的能力集合（rag_query / order_lookup / product_search / ticket_creation / direct）
  - WorkerContext / WorkerResult — 离线 Worker 调度链的输入输出契约
  - AgentResponse          — 编排器统一返回体（含 usage、sources、refund_step、sentiment）
  - HistoryContext         — 历史压缩结果（respond_context + router_context）
  - TokenUsage             — LLM token 用量，支持满足结合律与交换律的加法合并
  - RefundStep             — 退货工作流步骤枚举（跨轮透传于 metadata）
  - Error / ErrorCode      — 结构化错误体系，含 HTTP 状态码与 Retryable 标记
*/
package types
