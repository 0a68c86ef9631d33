package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/store"
	"github.com/kefuflow/kefuflow/types"
)

// OrderFinder 是订单查询工具依赖的数据接口。
type OrderFinder interface {
	Lookup(ctx context.Context, orderID string) (*store.Order, error)
}

// OrderLookup 按订单号查询订单状态。
type OrderLookup struct {
	orders OrderFinder
	logger *zap.Logger
}

// NewOrderLookup 创建订单查询工具。
func NewOrderLookup(orders OrderFinder, logger *zap.Logger) *OrderLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderLookup{
		orders: orders,
		logger: logger.With(zap.String("tool", "order_lookup")),
	}
}

// Name 实现 Tool。
func (t *OrderLookup) Name() types.Capability { return types.CapabilityOrderLookup }

// Invoke 实现 Tool。从消息里提取订单号，未提取到时按 "unknown" 查询。
// 订单不存在是 success=false 加错误信息，不是异常。
func (t *OrderLookup) Invoke(ctx context.Context, inv Invocation) Result {
	orderID := ExtractOrderID(inv.UserMessage)
	if orderID == "" {
		orderID = "unknown"
	}

	order, err := t.orders.Lookup(ctx, orderID)
	if err != nil {
		if types.IsErrorCode(err, types.ErrNotFound) {
			return Result{
				Success: false,
				Error:   "订单 '" + orderID + "' 不存在",
			}
		}
		t.logger.Error("order lookup failed",
			zap.String("order_id", orderID),
			zap.Error(err))
		return Result{Success: false, Error: err.Error()}
	}

	return Result{
		Success: true,
		Data: map[string]any{
			"order_id":                order.OrderID,
			"order_status":            string(order.Status),
			"product_category":        order.ProductCategory,
			"price":                   order.Price,
			"purchase_timestamp":      order.PurchasedAt.Format("2006-01-02 15:04:05"),
			"estimated_delivery_date": order.EstimatedDelivery.Format("2006-01-02"),
		},
	}
}
