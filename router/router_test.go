package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kefuflow/kefuflow/testutil/mocks"
	"github.com/kefuflow/kefuflow/types"
)

func TestRoute_SingleCapabilityShortCircuit(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider()
	r := NewIntentRouter(provider, nil)

	d := r.Route(context.Background(), "随便什么消息", []types.Capability{types.CapabilityTicketCreation}, "")
	assert.Equal(t, types.CapabilityTicketCreation, d.Capability)
	assert.Zero(t, provider.CallCount(), "single enabled capability must not invoke the LLM")
}

func TestRoute_NoEnabledCapabilities(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider()
	r := NewIntentRouter(provider, nil)

	d := r.Route(context.Background(), "查一下订单", nil, "")
	assert.Equal(t, types.CapabilityDirect, d.Capability)
	assert.Zero(t, provider.CallCount())
}

func TestRoute_KeywordRules(t *testing.T) {
	t.Parallel()

	all := types.AllCapabilities()
	provider := mocks.NewMockProvider()
	r := NewIntentRouter(provider, nil)

	tests := []struct {
		name    string
		message string
		want    types.Capability
	}{
		{name: "greeting routes direct", message: "你好！", want: types.CapabilityDirect},
		{name: "order id token", message: "帮我查 ORD-12345 到哪了", want: types.CapabilityOrderLookup},
		{name: "logistics vocabulary", message: "我的包裹物流怎么还没更新", want: types.CapabilityOrderLookup},
		{name: "support vocabulary", message: "我要投诉你们的客服", want: types.CapabilityTicketCreation},
		{name: "product vocabulary", message: "有什么商品推荐吗", want: types.CapabilityProductSearch},
		{name: "english order", message: "where is my order", want: types.CapabilityOrderLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := r.Route(context.Background(), tt.message, all, "")
			assert.Equal(t, tt.want, d.Capability)
		})
	}
	assert.Zero(t, provider.CallCount(), "keyword matches must not invoke the LLM")
}

func TestRoute_KeywordMatchDiscardedWhenDisabled(t *testing.T) {
	t.Parallel()

	// 命中 order 词汇但 order_lookup 未启用 ⇒ 规则被丢弃，走 LLM 分类。
	provider := mocks.NewMockProvider().WithResponse(`{"tool": "rag_query", "reasoning": "知识型问题"}`)
	r := NewIntentRouter(provider, nil)

	enabled := []types.Capability{types.CapabilityRAGQuery, types.CapabilityProductSearch}
	d := r.Route(context.Background(), "我的订单物流到哪了", enabled, "")

	assert.Equal(t, types.CapabilityRAGQuery, d.Capability)
	assert.Equal(t, 1, provider.CallCount())
}

func TestRoute_LLMClassification(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider().
		WithResponse(`{"tool": "rag_query", "reasoning": "退货政策属于知识型问题"}`)
	r := NewIntentRouter(provider, nil)

	d := r.Route(context.Background(), "可以说明一下退换规则吗", types.AllCapabilities(), "[user] 你们卖什么")
	assert.Equal(t, types.CapabilityRAGQuery, d.Capability)
	assert.Equal(t, "退货政策属于知识型问题", d.Reasoning)
	require.NotNil(t, d.Usage)
	assert.Positive(t, d.Usage.TotalTokens)

	// 提示词只枚举已启用能力加 direct。
	call, ok := provider.LastCall()
	require.True(t, ok)
	assert.Contains(t, call.SystemPrompt, "rag_query")
	assert.Contains(t, call.SystemPrompt, "direct")
	assert.Equal(t, "[user] 你们卖什么", call.Context)
}

func TestRoute_CodeFencedResponse(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider().
		WithResponse("```json\n{\"tool\": \"rag_query\", \"reasoning\": \"ok\"}\n```")
	r := NewIntentRouter(provider, nil)

	d := r.Route(context.Background(), "怎么保养这个东西", types.AllCapabilities(), "")
	assert.Equal(t, types.CapabilityRAGQuery, d.Capability)
}

func TestRoute_OutOfSetToolClamped(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider().
		WithResponse(`{"tool": "web_search", "reasoning": "想上网查"}`)
	r := NewIntentRouter(provider, nil)

	enabled := []types.Capability{types.CapabilityRAGQuery, types.CapabilityOrderLookup}
	d := r.Route(context.Background(), "帮我个忙呗", enabled, "")
	assert.Equal(t, types.CapabilityRAGQuery, d.Capability, "clamped to first enabled capability")
}

func TestRoute_ParseFailureFallsBackToRAGQuery(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider().WithResponse("我觉得应该查知识库")
	r := NewIntentRouter(provider, nil)

	d := r.Route(context.Background(), "嗯这个怎么弄", types.AllCapabilities(), "")
	assert.Equal(t, types.CapabilityRAGQuery, d.Capability)
	require.NotNil(t, d.Usage, "usage accrued before the failure is surfaced")
	assert.Positive(t, d.Usage.TotalTokens)
}

func TestRoute_MissingToolFieldFallsBackToRAGQuery(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider().WithResponse(`{"reasoning": "没给 tool"}`)
	r := NewIntentRouter(provider, nil)

	d := r.Route(context.Background(), "这个怎么用", types.AllCapabilities(), "")
	assert.Equal(t, types.CapabilityRAGQuery, d.Capability)
}

func TestRoute_TransportErrorFailsOpenToDirect(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider().WithError(errors.New("upstream 503"))
	r := NewIntentRouter(provider, nil)

	d := r.Route(context.Background(), "这个怎么用", types.AllCapabilities(), "")
	assert.Equal(t, types.CapabilityDirect, d.Capability)
	assert.Nil(t, d.Usage, "no usage accrued when the call itself failed")
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no fence", input: `{"a":1}`, want: `{"a":1}`},
		{name: "plain fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", input: "  ```json\n{\"a\":1}\n```  ", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.input))
		})
	}
}
