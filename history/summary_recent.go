package history

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kefuflow/kefuflow/internal/cache"
	"github.com/kefuflow/kefuflow/llm"
	"github.com/kefuflow/kefuflow/types"
)

// 摘要系统提示：压缩旧对话，保留订单号、商品名、用户偏好等关键信息。
const summarySystemPrompt = "你是一个对话摘要助手。请将以下对话历史压缩成简洁的摘要，" +
	"保留关键信息（订单号、商品名、用户偏好、问题要点）。不超过 200 字。"

const summaryMarker = "[对话摘要]"

// summaryCacheTTL 是摘要在缓存协作者中的保留时间。
const summaryCacheTTL = 30 * time.Minute

// SummaryRecent 把旧对话压缩成 LLM 摘要，最近 recent_turns 轮完整保留。
//
// 摘要按（旧消息数，最后一条旧消息 id）为键记忆：会话只增不改，
// 同一前缀只需要摘要一次。并发的同键摘要请求用 singleflight 合并。
type SummaryRecent struct {
	provider llm.Provider
	cache    cache.Cache
	group    singleflight.Group
	logger   *zap.Logger
}

// NewSummaryRecent 创建摘要策略。
func NewSummaryRecent(provider llm.Provider, c cache.Cache, logger *zap.Logger) *SummaryRecent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryRecent{
		provider: provider,
		cache:    c,
		logger:   logger.With(zap.String("component", "history_summary_recent")),
	}
}

// Name 返回策略名。
func (s *SummaryRecent) Name() string { return "summary_recent" }

// Process 实现 Strategy。消息数不超过 recent_turns*2 时行为等同 full。
func (s *SummaryRecent) Process(ctx context.Context, messages []types.Message, cfg types.HistoryConfig) (types.HistoryContext, error) {
	if len(messages) == 0 {
		return emptyContext(s.Name()), nil
	}

	recentCount := cfg.RecentTurns * 2
	if len(messages) <= recentCount {
		full, err := NewFull().Process(ctx, messages, cfg)
		if err != nil {
			return types.HistoryContext{}, err
		}
		full.StrategyName = s.Name()
		return full, nil
	}

	oldMessages := messages[:len(messages)-recentCount]
	recentMessages := messages[len(messages)-recentCount:]

	summary, err := s.summarize(ctx, oldMessages, cfg)
	if err != nil {
		return types.HistoryContext{}, err
	}

	recentText := formatMessages(recentMessages)

	return types.HistoryContext{
		RespondContext: fmt.Sprintf("%s %s\n\n%s", summaryMarker, summary, recentText),
		RouterContext:  fmt.Sprintf("%s %s", summaryMarker, summary),
		MessageCount:   len(messages),
		StrategyName:   s.Name(),
	}, nil
}

// summarize 生成（或命中缓存的）旧消息摘要。
func (s *SummaryRecent) summarize(ctx context.Context, old []types.Message, cfg types.HistoryConfig) (string, error) {
	key := fmt.Sprintf("history:summary:%d:%s", len(old), old[len(old)-1].ID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		return cached, nil
	} else if !cache.IsCacheMiss(err) {
		s.logger.Warn("summary cache read failed", zap.Error(err))
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		maxTokens := cfg.SummaryMaxTokens
		if maxTokens <= 0 {
			maxTokens = types.DefaultHistoryConfig().SummaryMaxTokens
		}

		result, err := s.provider.Generate(ctx, &llm.GenerateRequest{
			SystemPrompt: summarySystemPrompt,
			UserMessage:  "请摘要以下对话：",
			Context:      formatMessages(old),
			MaxTokens:    maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("summarize history: %w", err)
		}

		if err := s.cache.Set(ctx, key, result.Text, summaryCacheTTL); err != nil {
			s.logger.Warn("summary cache write failed", zap.Error(err))
		}

		s.logger.Debug("history summarized",
			zap.Int("old_messages", len(old)),
			zap.String("cache_key", key))

		return result.Text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
