// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package worker 实现多 Agent 调度链：Worker / TeamSupervisor / MetaSupervisor。

Worker 是叶子节点；TeamSupervisor 持有一组 Worker，按注册顺序
调度第一个 CanHandle 为真的成员，本身也是 Worker，可任意嵌套；
MetaSupervisor 是顶层路由：按用户角色选择团队（未知角色回落到
customer），可选做关键字情绪检测（负面词汇 ⇒ 升级标记），
调度后对过短回答做一次反思包装。

这条链是完全离线的编排路径，与 LLM 驱动的主路径满足
相同的下游契约。多轮状态只存在于调用方透传的 metadata 中，
Worker 返回的 metadata 整体替换（而非合并）下一轮的输入。
*/
package worker
