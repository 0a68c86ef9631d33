package agent

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/internal/ctxkeys"
	"github.com/kefuflow/kefuflow/router"
	"github.com/kefuflow/kefuflow/tools"
	"github.com/kefuflow/kefuflow/types"
)

// ProcessStream 流式处理一轮对话。
//
// 机器人解析、归属校验与历史压缩在返回前同步完成，
// 这些阶段的错误作为返回值给出，不进入事件流。
// 返回后事件按 tool_calls → sources?（有来源时）→ token×N → done 顺序产出；
// 零能力机器人跳过路由与工具，只产出 token×N → done。
// 中途失败产出一个 error 事件后关闭通道。
func (o *Orchestrator) ProcessStream(ctx context.Context, req *ProcessRequest) (<-chan Event, error) {
	t, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	events := make(chan Event, 16)
	go o.stream(ctx, req, t, events)
	return events, nil
}

func (o *Orchestrator) stream(ctx context.Context, req *ProcessRequest, t *turn, events chan<- Event) {
	defer close(events)
	started := time.Now()

	ctx = ctxkeys.WithTenantID(ctx, req.TenantID)
	ctx = ctxkeys.WithConversationID(ctx, t.conversationID)

	unlock := o.locks.acquire(t.conversationID)
	defer unlock()

	fail := func(err error) {
		o.turnLogger(ctx).Warn("stream aborted", zap.Error(err))
		if o.metrics != nil {
			o.metrics.RecordTurn(req.TenantID, "error", time.Since(started))
		}
		o.emit(ctx, events, Event{Type: EventError, Err: err})
	}

	// 零能力机器人直接流式转发 LLM 输出，不经过路由与工具。
	var toolCalls []types.ToolCallRecord
	var result *tools.Result
	if t.enabled == nil || len(t.enabled) > 0 {
		var decision router.Decision
		decision, result = o.routeAndRun(ctx, req, t)
		toolCalls = toolCallsFor(decision)
		if !o.emit(ctx, events, Event{Type: EventToolCalls, ToolCalls: toolCalls}) {
			return
		}
		if result != nil && len(result.Sources) > 0 {
			if !o.emit(ctx, events, Event{Type: EventSources, Sources: result.Sources}) {
				return
			}
		}
	}

	chunks, err := o.synth.SynthesizeStream(ctx, SynthesisInput{
		UserMessage:    req.UserMessage,
		HistoryContext: t.historyCtx,
		ToolResult:     result,
		SystemPrompt:   t.systemPrompt,
		Params:         t.params,
	})
	if err != nil {
		fail(err)
		return
	}

	var answer strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			fail(chunk.Err)
			return
		}
		if chunk.Usage != nil {
			t.addUsage(o, chunk.Usage)
		}
		if chunk.Token == "" {
			continue
		}
		answer.WriteString(chunk.Token)
		if !o.emit(ctx, events, Event{Type: EventToken, Token: chunk.Token}) {
			return
		}
	}

	resp := &types.AgentResponse{
		Answer:         answer.String(),
		ToolCalls:      toolCalls,
		ConversationID: t.conversationID,
		Usage:          t.usageOrNil(),
	}
	if result != nil {
		resp.Sources = result.Sources
	}
	o.persistTurn(ctx, req, t, resp.Answer)
	if o.metrics != nil {
		o.metrics.RecordTurn(req.TenantID, "success", time.Since(started))
	}
	o.emit(ctx, events, Event{Type: EventDone, Response: resp})
}

// emit 发送一个事件；上下文取消时返回 false。
func (o *Orchestrator) emit(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
