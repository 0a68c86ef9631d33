// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package agent 实现对话编排核心。

Orchestrator 是一轮对话的完整生命周期：
压缩历史 → 解析机器人配置（含租户归属校验，任何 LLM 调用之前）→
意图路由 → 执行选中的工具（direct 跳过）→ 合成回答 → 合并用量。

Process 同步返回 AgentResponse；ProcessStream 是它的流式孪生，
按固定顺序产出事件：tool_calls → sources?（有来源时）→ token×N → done。
零能力机器人走快速路径，跳过路由与工具，直接流式转发 LLM 输出。

本核心不持有任何存储：历史由调用方传入，或经调用方实现的
ConversationStore 按需加载与追加；同一会话内的并发轮次由
按会话号的互斥锁串行化。
*/
package agent
