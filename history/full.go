package history

import (
	"context"

	"github.com/kefuflow/kefuflow/types"
)

// Full 传递全部历史，不压缩；路由上下文仍按
// router_context_limit*2 截尾，意图分类不需要完整历史。
type Full struct{}

// NewFull 创建全量策略。
func NewFull() *Full { return &Full{} }

// Name 返回策略名。
func (s *Full) Name() string { return "full" }

// Process 实现 Strategy。
func (s *Full) Process(_ context.Context, messages []types.Message, cfg types.HistoryConfig) (types.HistoryContext, error) {
	if len(messages) == 0 {
		return emptyContext(s.Name()), nil
	}

	routerMsgs := tailMessages(messages, cfg.RouterContextLimit*2)

	return types.HistoryContext{
		RespondContext: formatMessages(messages),
		RouterContext:  formatMessages(routerMsgs),
		MessageCount:   len(messages),
		StrategyName:   s.Name(),
	}, nil
}
