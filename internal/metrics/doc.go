// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package metrics 提供内部 Prometheus 指标收集。

覆盖四类指标：

  - 对话轮次：总数、耗时、路由决策分布
  - LLM 调用：请求数、token 用量（prompt/completion）、成本
  - 工具调用：按能力名与成败统计
  - 缓存：命中与未命中

本包是 internal 包，不对外导出。
*/
package metrics
