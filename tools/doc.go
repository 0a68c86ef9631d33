// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package tools 实现能力工具集。

每个工具实现统一的 Tool 接口，返回 Result{Success, Data, Error}。
工具层的失败一律作为数据返回，绝不向上抛异常：
订单不存在是 success=false 加错误信息，
知识库无相关内容是 success=true 加说明性回答与空来源，
商品零命中是 success=true 加空列表。

Registry 按能力名分发调用；未注册的能力返回结构化的「未启用」结果。
*/
package tools
