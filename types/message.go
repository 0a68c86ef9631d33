package types

import (
	"time"

	"github.com/google/uuid"
)

// Role 表示消息参与方的角色。
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolCallRecord 是一条不透明的工具调用记录。
// 上层只透传，不解释其中的键值（惯例键：tool_name、reasoning）。
type ToolCallRecord map[string]string

// NewToolCallRecord 构造一条标准的工具调用记录。
func NewToolCallRecord(toolName, reasoning string) ToolCallRecord {
	return ToolCallRecord{"tool_name": toolName, "reasoning": reasoning}
}

// Message 表示一条对话消息。创建后不可变。
type Message struct {
	ID              string           `json:"id"`
	ConversationID  string           `json:"conversation_id,omitempty"`
	Role            Role             `json:"role"`
	Content         string           `json:"content"`
	ToolCalls       []ToolCallRecord `json:"tool_calls,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	LatencyMS       int64            `json:"latency_ms,omitempty"`
	RetrievedChunks []string         `json:"retrieved_chunks,omitempty"`
}

// NewMessage 创建指定角色与内容的消息。
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewUserMessage 创建用户消息。
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage 创建助手消息。
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewSystemMessage 创建系统消息。
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// WithToolCalls 附加工具调用记录，返回消息副本。
func (m Message) WithToolCalls(calls []ToolCallRecord) Message {
	m.ToolCalls = calls
	return m
}

// Conversation 表示一个会话快照。消息按创建时间单调递增排列，
// 持久化由外部协作者负责；编排核心每轮恰好追加一条用户消息和
// 一条助手消息，然后整体交还调用方。
type Conversation struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	BotID     string    `json:"bot_id,omitempty"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// NewConversation 创建空会话。
func NewConversation(tenantID, botID string) *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		BotID:     botID,
		CreatedAt: time.Now().UTC(),
	}
}

// Append 将消息追加到会话尾部并回填 ConversationID。
func (c *Conversation) Append(msg Message) {
	msg.ConversationID = c.ID
	c.Messages = append(c.Messages, msg)
}

// LastMessage 返回最后一条消息；会话为空时返回 false。
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}
