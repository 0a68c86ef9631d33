// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package history 把原始消息历史压缩成两段有界上下文文本。

# 策略

  - full           — 全量历史，不压缩
  - sliding_window — 只保留最近 N 条消息（默认策略）
  - summary_recent — 旧对话压缩成 LLM 摘要 + 最近 N 轮完整保留
  - rag_history    — 预留桩，当前委托 sliding_window

策略通过 New 工厂按封闭的 StrategyType 枚举解析，每个 bot 配置
解析一次，而不是每个请求解析一次。

summary_recent 按（旧消息数，最后一条旧消息 id）记忆摘要：
稳定前缀只摘要一次，结果写入带 TTL 的缓存协作者，
并用 singleflight 合并并发的同键摘要请求。
*/
package history
