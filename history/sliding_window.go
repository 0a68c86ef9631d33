package history

import (
	"context"

	"github.com/kefuflow/kefuflow/types"
)

// SlidingWindow 只保留最近 history_limit 条消息。默认策略。
type SlidingWindow struct{}

// NewSlidingWindow 创建滑动窗口策略。
func NewSlidingWindow() *SlidingWindow { return &SlidingWindow{} }

// Name 返回策略名。
func (s *SlidingWindow) Name() string { return "sliding_window" }

// Process 实现 Strategy。路由上下文在窗口内再按
// router_context_limit*2 截尾。
func (s *SlidingWindow) Process(_ context.Context, messages []types.Message, cfg types.HistoryConfig) (types.HistoryContext, error) {
	if len(messages) == 0 {
		return emptyContext(s.Name()), nil
	}

	window := tailMessages(messages, cfg.HistoryLimit)
	routerMsgs := tailMessages(window, cfg.RouterContextLimit*2)

	return types.HistoryContext{
		RespondContext: formatMessages(window),
		RouterContext:  formatMessages(routerMsgs),
		MessageCount:   len(window),
		StrategyName:   s.Name(),
	}, nil
}
