package worker

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/kefuflow/kefuflow/store"
	"github.com/kefuflow/kefuflow/types"
)

var (
	refundKeywords = regexp.MustCompile(`(?i)退货|退貨|退款|refund|退回|退换|退換`)
	orderIDPattern = regexp.MustCompile(`(?i)ORD-\w+`)
)

// TicketCreator 是退货终态建立工单的依赖；为 nil 时离线生成工单号。
type TicketCreator interface {
	Create(ctx context.Context, tenantID, subject, description, orderID string) (*store.SupportTicket, error)
}

// RefundWorker 退货流程 Worker：三步引导
// collect_order → collect_reason → confirm（终态，清除步骤）。
// 步骤只存放在调用方透传的 metadata 中，没有独立的会话存储。
type RefundWorker struct {
	tickets TicketCreator
}

// NewRefundWorker 创建退货 Worker。tickets 可为 nil。
func NewRefundWorker(tickets TicketCreator) *RefundWorker {
	return &RefundWorker{tickets: tickets}
}

// Name 实现 Worker。
func (w *RefundWorker) Name() string { return "refund" }

// CanHandle 实现 Worker：metadata 已带本流程步骤，或消息命中退货词汇。
func (w *RefundWorker) CanHandle(ctx context.Context, wc *types.WorkerContext) bool {
	if _, ok := types.ParseRefundStep(wc.MetaValue(types.MetaKeyRefundStep)); ok {
		return true
	}
	return refundKeywords.MatchString(wc.UserMessage)
}

// Handle 实现 Worker。
func (w *RefundWorker) Handle(ctx context.Context, wc *types.WorkerContext) (types.WorkerResult, error) {
	switch w.determineStep(wc) {
	case types.RefundStepCollectOrder:
		return types.WorkerResult{
			Answer: "好的，我来协助您处理退货。请提供您的订单编号（例如 ORD-001）。",
			ToolCalls: []types.ToolCallRecord{
				types.NewToolCallRecord("refund_workflow", "开始退货流程，收集订单号"),
			},
			Metadata: map[string]any{types.MetaKeyRefundStep: string(types.RefundStepCollectReason)},
		}, nil

	case types.RefundStepCollectReason:
		orderID := w.extractOrderID(wc)
		return types.WorkerResult{
			Answer: fmt.Sprintf("已找到订单 %s。请问您的退货原因是什么？", orderID),
			ToolCalls: []types.ToolCallRecord{
				types.NewToolCallRecord("refund_workflow", "已收集订单号，收集退货原因"),
			},
			Metadata: map[string]any{types.MetaKeyRefundStep: string(types.RefundStepCollectReason)},
		}, nil

	default: // confirm：建立工单并清除步骤。
		ticketID, err := w.createTicket(ctx, wc)
		if err != nil {
			return types.WorkerResult{}, err
		}
		return types.WorkerResult{
			Answer: fmt.Sprintf("已为您建立退货工单 %s，我们会尽快处理。", ticketID),
			ToolCalls: []types.ToolCallRecord{
				types.NewToolCallRecord("refund_workflow", "退货流程完成，建立工单"),
			},
			Metadata: map[string]any{},
		}, nil
	}
}

// determineStep 决定本轮执行的步骤。
// 进入 collect_reason 后：消息里还带着订单号说明用户刚报完单号，
// 继续收集原因；不带订单号的消息视为原因本身，进入 confirm。
func (w *RefundWorker) determineStep(wc *types.WorkerContext) types.RefundStep {
	current, ok := types.ParseRefundStep(wc.MetaValue(types.MetaKeyRefundStep))
	if ok {
		switch current {
		case types.RefundStepConfirm:
			return types.RefundStepConfirm
		case types.RefundStepCollectReason:
			if orderIDPattern.MatchString(wc.UserMessage) {
				return types.RefundStepCollectReason
			}
			return types.RefundStepConfirm
		}
	}

	if w.hasOrderInHistory(wc) {
		return types.RefundStepCollectReason
	}
	return types.RefundStepCollectOrder
}

// extractOrderID 先查当前消息，再倒序扫描历史取最近出现的订单号。
func (w *RefundWorker) extractOrderID(wc *types.WorkerContext) string {
	if m := orderIDPattern.FindString(wc.UserMessage); m != "" {
		return m
	}
	for i := len(wc.ConversationHistory) - 1; i >= 0; i-- {
		if m := orderIDPattern.FindString(wc.ConversationHistory[i].Content); m != "" {
			return m
		}
	}
	return "ORD-UNKNOWN"
}

func (w *RefundWorker) hasOrderInHistory(wc *types.WorkerContext) bool {
	for _, msg := range wc.ConversationHistory {
		if orderIDPattern.MatchString(msg.Content) {
			return true
		}
	}
	return false
}

// createTicket 经工单服务建立退货工单；未配置服务时离线生成工单号。
func (w *RefundWorker) createTicket(ctx context.Context, wc *types.WorkerContext) (string, error) {
	if w.tickets == nil {
		return "TK-" + strings.ToUpper(uuid.NewString()[:6]), nil
	}
	ticket, err := w.tickets.Create(ctx, wc.TenantID, "退货申请", wc.UserMessage, w.extractOrderID(wc))
	if err != nil {
		return "", fmt.Errorf("create refund ticket: %w", err)
	}
	return ticket.ID, nil
}
