package worker

import (
	"context"

	"github.com/kefuflow/kefuflow/types"
)

// Worker 是调度链的统一接口。
type Worker interface {
	// Name 返回 Worker 名称。
	Name() string
	// CanHandle 报告该 Worker 是否能处理此上下文。
	CanHandle(ctx context.Context, wc *types.WorkerContext) bool
	// Handle 处理一轮消息。
	Handle(ctx context.Context, wc *types.WorkerContext) (types.WorkerResult, error)
}

// cannotHandleAnswer 是链上无人接手时的兜底回答。
const cannotHandleAnswer = "抱歉，我无法处理此请求。"
