package agent

import (
	"context"

	"github.com/kefuflow/kefuflow/types"
)

// ConversationStore 是调用方提供的对话历史仓储。
// 编排器不持有任何持久化实现；未配置时历史完全由请求携带。
type ConversationStore interface {
	// History 返回某租户某会话的全部历史消息，按时间升序。
	History(ctx context.Context, tenantID, conversationID string) ([]types.Message, error)
	// Append 在会话末尾追加消息。
	Append(ctx context.Context, tenantID, conversationID string, msgs ...types.Message) error
}
