package agent

import "github.com/kefuflow/kefuflow/types"

// EventType 是流式事件类型。
type EventType string

const (
	// EventToolCalls 是本轮路由产生的工具调用记录，最先产出。
	EventToolCalls EventType = "tool_calls"
	// EventSources 是来源引用，仅在有来源时产出。
	EventSources EventType = "sources"
	// EventToken 是回答文本增量。
	EventToken EventType = "token"
	// EventDone 是终止事件，携带完整的 AgentResponse。
	EventDone EventType = "done"
	// EventError 表示流中途失败，之后不再有事件。
	EventError EventType = "error"
)

// Event 是 ProcessStream 产出的单个事件。
// 一次成功的工具轮次按 tool_calls → sources? → token×N → done 的顺序产出。
type Event struct {
	Type      EventType              `json:"type"`
	ToolCalls []types.ToolCallRecord `json:"tool_calls,omitempty"`
	Sources   []types.Source         `json:"sources,omitempty"`
	Token     string                 `json:"token,omitempty"`
	Response  *types.AgentResponse   `json:"response,omitempty"`
	Err       error                  `json:"-"`
}
