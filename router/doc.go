// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package router 把用户消息分类到一个能力名。

# 解析顺序（先命中先返回）

 1. 只启用了一个能力 ⇒ 直接返回，不调用 LLM（省时省钱的短路）
 2. 有序关键字规则：寒暄→direct、物流词汇→order_lookup、
    客诉词汇→ticket_creation、商品词汇→product_search；
    命中仅在该能力已启用（或为 direct）时被接受，否则丢弃
 3. LLM 意图分类：提示词只枚举已启用能力加 direct，
    响应可能包在代码围栏里（剥除后）解析为 {tool, reasoning}，
    集合外的 tool 被钳制到第一个已启用能力

# 失败策略

解析失败回落到 rag_query（刻意偏向尝试知识库查询）；
其余分类错误回落到 direct（fail open，直接作答）。
两条路径都会带出失败前已累计的 usage。
*/
package router
