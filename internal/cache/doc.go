// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package cache 提供摘要缓存的内部实现。

SummaryRecent 历史压缩策略用它来记忆稳定前缀的 LLM 摘要，
键为（旧消息数，最后一条旧消息 id），同一前缀只摘要一次。

提供两种实现：

  - Redis  — go-redis 客户端，适合多实例部署共享摘要
  - Memory — 进程内 TTL map，适合单机与测试

两者都通过 Cache 接口消费，未命中统一返回 ErrCacheMiss。
*/
package cache
