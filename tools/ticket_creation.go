package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/store"
	"github.com/kefuflow/kefuflow/types"
)

// defaultTicketSubject 是未显式给定主题时的工单主题。
const defaultTicketSubject = "客户投诉"

// TicketCreator 是工单工具依赖的数据接口。
type TicketCreator interface {
	Create(ctx context.Context, tenantID, subject, description, orderID string) (*store.SupportTicket, error)
}

// TicketCreation 建立客服工单。
type TicketCreation struct {
	tickets TicketCreator
	logger  *zap.Logger
}

// NewTicketCreation 创建工单工具。
func NewTicketCreation(tickets TicketCreator, logger *zap.Logger) *TicketCreation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketCreation{
		tickets: tickets,
		logger:  logger.With(zap.String("tool", "ticket_creation")),
	}
}

// Name 实现 Tool。
func (t *TicketCreation) Name() types.Capability { return types.CapabilityTicketCreation }

// Invoke 实现 Tool。工单描述取用户消息原文，
// 消息里出现订单号形状的 token 时一并关联。
func (t *TicketCreation) Invoke(ctx context.Context, inv Invocation) Result {
	ticket, err := t.tickets.Create(ctx, inv.TenantID, defaultTicketSubject, inv.UserMessage, ExtractOrderID(inv.UserMessage))
	if err != nil {
		t.logger.Error("ticket creation failed", zap.Error(err))
		return Result{Success: false, Error: err.Error()}
	}

	return Result{
		Success: true,
		Data: map[string]any{
			"ticket_id": ticket.ID,
			"tenant_id": ticket.TenantID,
			"subject":   ticket.Subject,
			"order_id":  ticket.OrderID,
			"status":    string(ticket.Status),
		},
	}
}
