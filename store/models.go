package store

import "time"

// OrderStatus 订单状态。
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Order 订单记录。
type Order struct {
	OrderID           string      `gorm:"primaryKey;size:64" json:"order_id"`
	TenantID          string      `gorm:"index;size:64" json:"tenant_id"`
	Status            OrderStatus `gorm:"index;size:32" json:"status"`
	ProductCategory   string      `gorm:"size:128" json:"product_category"`
	Price             float64     `json:"price"`
	PurchasedAt       time.Time   `json:"purchased_at"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
}

// Product 商品记录。
type Product struct {
	ProductID       string  `gorm:"primaryKey;size:64" json:"product_id"`
	Category        string  `gorm:"index;size:128" json:"category"`
	CategoryEnglish string  `gorm:"index;size:128" json:"category_english"`
	WeightGrams     float64 `json:"weight_g"`
}

// TicketStatus 工单状态。
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// SupportTicket 客服工单。
type SupportTicket struct {
	ID          string       `gorm:"primaryKey;size:64" json:"id"`
	TenantID    string       `gorm:"index;size:64" json:"tenant_id"`
	Subject     string       `gorm:"size:256" json:"subject"`
	Description string       `json:"description"`
	OrderID     string       `gorm:"size:64" json:"order_id"`
	Status      TicketStatus `gorm:"size:32" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}
