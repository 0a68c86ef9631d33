package history

import (
	"context"

	"github.com/kefuflow/kefuflow/types"
)

// RAGHistory 是向量检索历史的预留桩，当前委托 SlidingWindow。
// TODO(rag-history): 用 rag.Retriever 按语义相关性挑选历史片段。
type RAGHistory struct {
	fallback *SlidingWindow
}

// NewRAGHistory 创建桩策略。
func NewRAGHistory() *RAGHistory {
	return &RAGHistory{fallback: NewSlidingWindow()}
}

// Name 返回策略名。
func (s *RAGHistory) Name() string { return "rag_history" }

// Process 实现 Strategy，行为与 sliding_window 一致，仅替换策略名。
func (s *RAGHistory) Process(ctx context.Context, messages []types.Message, cfg types.HistoryConfig) (types.HistoryContext, error) {
	out, err := s.fallback.Process(ctx, messages, cfg)
	if err != nil {
		return types.HistoryContext{}, err
	}
	out.StrategyName = s.Name()
	return out, nil
}
