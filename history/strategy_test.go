package history

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kefuflow/kefuflow/internal/cache"
	"github.com/kefuflow/kefuflow/testutil/mocks"
	"github.com/kefuflow/kefuflow/types"
)

func makeMessages(n int) []types.Message {
	msgs := make([]types.Message, 0, n)
	for i := 0; i < n; i++ {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		msg := types.NewMessage(role, fmt.Sprintf("message-%d", i))
		msg.ID = fmt.Sprintf("msg-%d", i)
		msgs = append(msgs, msg)
	}
	return msgs
}

func TestStrategies_EmptyInput(t *testing.T) {
	t.Parallel()

	strategies := []Strategy{
		NewFull(),
		NewSlidingWindow(),
		NewSummaryRecent(mocks.NewMockProvider(), cache.NewMemory(time.Minute), nil),
		NewRAGHistory(),
	}

	cfg := types.DefaultHistoryConfig()
	for _, s := range strategies {
		out, err := s.Process(context.Background(), nil, cfg)
		require.NoError(t, err, s.Name())
		assert.Zero(t, out.MessageCount, s.Name())
		assert.Empty(t, out.RespondContext, s.Name())
		assert.Empty(t, out.RouterContext, s.Name())
		assert.Equal(t, s.Name(), out.StrategyName)
	}
}

func TestFull_FormatsAllMessages(t *testing.T) {
	t.Parallel()

	cfg := types.DefaultHistoryConfig()
	msgs := makeMessages(4)

	out, err := NewFull().Process(context.Background(), msgs, cfg)
	require.NoError(t, err)

	assert.Equal(t, 4, out.MessageCount)
	assert.Equal(t,
		"[user] message-0\n[assistant] message-1\n[user] message-2\n[assistant] message-3",
		out.RespondContext)
	// 路由上下文按 router_context_limit*2 截尾。
	assert.Equal(t, out.RespondContext, out.RouterContext)
}

func TestSlidingWindow_KeepsLastLimit(t *testing.T) {
	t.Parallel()

	cfg := types.DefaultHistoryConfig()
	cfg.HistoryLimit = 5
	msgs := makeMessages(12)

	out, err := NewSlidingWindow().Process(context.Background(), msgs, cfg)
	require.NoError(t, err)

	assert.Equal(t, 5, out.MessageCount)
	// 恰好最后 5 条在窗口内，第 N-limit 条（message-6）被排除。
	assert.Contains(t, out.RespondContext, "message-11")
	assert.Contains(t, out.RespondContext, "message-7")
	assert.NotContains(t, out.RespondContext, "message-6")

	cfg.RouterContextLimit = 1
	out, err = NewSlidingWindow().Process(context.Background(), msgs, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.RouterContext, "\n")+1)
	assert.Contains(t, out.RouterContext, "message-10")
	assert.NotContains(t, out.RouterContext, "message-9")
}

func TestSummaryRecent_BelowThresholdBehavesLikeFull(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider()
	s := NewSummaryRecent(provider, cache.NewMemory(time.Minute), nil)

	cfg := types.DefaultHistoryConfig()
	cfg.RecentTurns = 3
	msgs := makeMessages(6) // == recent_turns*2

	out, err := s.Process(context.Background(), msgs, cfg)
	require.NoError(t, err)

	full, err := NewFull().Process(context.Background(), msgs, cfg)
	require.NoError(t, err)

	assert.Equal(t, full.RespondContext, out.RespondContext)
	assert.Equal(t, full.RouterContext, out.RouterContext)
	assert.Equal(t, "summary_recent", out.StrategyName)
	assert.Zero(t, provider.CallCount(), "no LLM call below threshold")
}

func TestSummaryRecent_DigestPlusRecent(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider().WithResponse("用户此前询问了订单 ORD-001 的物流。")
	s := NewSummaryRecent(provider, cache.NewMemory(time.Minute), nil)

	cfg := types.DefaultHistoryConfig()
	cfg.RecentTurns = 2
	msgs := makeMessages(10)

	out, err := s.Process(context.Background(), msgs, cfg)
	require.NoError(t, err)

	assert.Equal(t, 10, out.MessageCount)
	assert.True(t, strings.HasPrefix(out.RespondContext, summaryMarker))
	// 恰好最后 recent_turns*2=4 条逐字保留。
	for i := 6; i < 10; i++ {
		assert.Contains(t, out.RespondContext, fmt.Sprintf("message-%d", i))
	}
	assert.NotContains(t, out.RespondContext, "message-5\n")
	// 路由上下文只含摘要。
	assert.Equal(t, summaryMarker+" 用户此前询问了订单 ORD-001 的物流。", out.RouterContext)
	assert.Equal(t, 1, provider.CallCount())
}

func TestSummaryRecent_MemoizesStablePrefix(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider().WithResponse("摘要")
	s := NewSummaryRecent(provider, cache.NewMemory(time.Minute), nil)

	cfg := types.DefaultHistoryConfig()
	cfg.RecentTurns = 2
	msgs := makeMessages(10)

	for i := 0; i < 3; i++ {
		_, err := s.Process(context.Background(), msgs, cfg)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, provider.CallCount(), "stable prefix is summarized once")

	// 前缀变化（追加一轮）触发新的摘要调用。
	_, err := s.Process(context.Background(), makeMessages(12), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.CallCount())
}

func TestRAGHistory_DelegatesToSlidingWindow(t *testing.T) {
	t.Parallel()

	cfg := types.DefaultHistoryConfig()
	cfg.HistoryLimit = 3
	msgs := makeMessages(8)

	out, err := NewRAGHistory().Process(context.Background(), msgs, cfg)
	require.NoError(t, err)

	sw, err := NewSlidingWindow().Process(context.Background(), msgs, cfg)
	require.NoError(t, err)

	assert.Equal(t, sw.RespondContext, out.RespondContext)
	assert.Equal(t, "rag_history", out.StrategyName)
}

func TestNew_Factory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		strategyType StrategyType
		deps         Deps
		wantName     string
		wantErr      bool
	}{
		{name: "empty defaults to sliding_window", strategyType: "", wantName: "sliding_window"},
		{name: "full", strategyType: StrategyFull, wantName: "full"},
		{name: "rag_history stub", strategyType: StrategyRAGHistory, wantName: "rag_history"},
		{
			name:         "summary_recent with deps",
			strategyType: StrategySummaryRecent,
			deps:         Deps{Provider: mocks.NewMockProvider(), Cache: cache.NewMemory(time.Minute)},
			wantName:     "summary_recent",
		},
		{name: "summary_recent missing provider", strategyType: StrategySummaryRecent, wantErr: true},
		{name: "unknown strategy", strategyType: StrategyType("vector"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.strategyType, tt.deps)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name())
		})
	}
}
