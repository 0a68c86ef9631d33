package history

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/internal/cache"
	"github.com/kefuflow/kefuflow/llm"
	"github.com/kefuflow/kefuflow/types"
)

// Strategy 是历史压缩策略接口。
// 空输入必须返回全空结果（MessageCount 为 0）。
type Strategy interface {
	// Name 返回策略名，回填到 HistoryContext.StrategyName。
	Name() string

	// Process 把消息历史压缩成有界上下文。
	Process(ctx context.Context, messages []types.Message, cfg types.HistoryConfig) (types.HistoryContext, error)
}

// StrategyType 标识要创建的压缩策略。
type StrategyType string

const (
	StrategyFull          StrategyType = "full"
	StrategySlidingWindow StrategyType = "sliding_window"
	StrategySummaryRecent StrategyType = "summary_recent"
	StrategyRAGHistory    StrategyType = "rag_history"
)

// Deps 是策略工厂的依赖集合。只有 summary_recent 需要
// Provider 与 Cache；其余策略忽略它们。
type Deps struct {
	Provider llm.Provider
	Cache    cache.Cache
	Logger   *zap.Logger
}

// New 根据策略类型创建压缩策略。空类型默认 sliding_window。
// 每个 bot 配置解析一次，复用返回的实例。
func New(t StrategyType, deps Deps) (Strategy, error) {
	switch t {
	case StrategySlidingWindow, "":
		return NewSlidingWindow(), nil

	case StrategyFull:
		return NewFull(), nil

	case StrategySummaryRecent:
		if deps.Provider == nil {
			return nil, fmt.Errorf("summary_recent strategy requires an llm provider")
		}
		if deps.Cache == nil {
			return nil, fmt.Errorf("summary_recent strategy requires a summary cache")
		}
		return NewSummaryRecent(deps.Provider, deps.Cache, deps.Logger), nil

	case StrategyRAGHistory:
		return NewRAGHistory(), nil

	default:
		return nil, fmt.Errorf("unsupported history strategy: %s", t)
	}
}

// emptyContext 返回指定策略名的全空结果。
func emptyContext(name string) types.HistoryContext {
	return types.HistoryContext{StrategyName: name}
}

// formatMessages 把消息格式化为 "[role] content" 行，换行拼接。
func formatMessages(messages []types.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("[%s] %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// tailMessages 返回最后 n 条消息；n 不为正或超长时返回原切片。
func tailMessages(messages []types.Message, n int) []types.Message {
	if n <= 0 || n >= len(messages) {
		return messages
	}
	return messages[len(messages)-n:]
}
