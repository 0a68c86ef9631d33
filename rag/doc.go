// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package rag 提供知识库检索。

Retriever 把一次查询变成带来源的命中列表：
先向量化查询（只做一次），再依序搜索每个知识库
（带租户过滤与分数阈值），最后合并所有命中并按分数降序排序。
空结果是正常结果，不是错误。

包内附带一个内存余弦相似度存储，用于测试与小规模场景；
生产向量库由调用方实现 VectorStore 接口接入。
*/
package rag
