// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package llm 定义编排核心消费的语言模型抽象。

# 概述

编排核心不实现任何 LLM 传输层；Provider 接口由外部协作者实现
（OpenAI / Anthropic / 自建网关等）。核心只依赖两个操作：

  - Generate       — 同步生成，返回文本与 token 用量
  - GenerateStream — 流式生成，返回只读 chunk 通道（惰性、有限、不可重放）

# 定价

Pricing 提供按模型的 USD/1M tokens 定价表，用于把原始 token 计数
换算成 TokenUsage.EstimatedCost。
*/
package llm
