package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kefuflow/kefuflow/types"
)

// Init 自动迁移所有表格。
func Init(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Order{},
		&Product{},
		&SupportTicket{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// OrderService 订单查询服务。
type OrderService struct {
	db *gorm.DB
}

// NewOrderService 创建订单查询服务。
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Lookup 按订单号查询。未找到返回 NotFound 错误。
func (s *OrderService) Lookup(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFoundError("Order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup order %s: %w", orderID, err)
	}
	return &order, nil
}

// ListByStatus 按状态列出订单，limit <= 0 时默认 20。
func (s *OrderService) ListByStatus(ctx context.Context, tenantID string, status OrderStatus, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var orders []Order
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("purchased_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}
	return orders, nil
}

// ProductService 商品搜索服务。
type ProductService struct {
	db *gorm.DB
}

// NewProductService 创建商品搜索服务。
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// Search 按关键字模糊匹配商品类目（中英文类目名都参与匹配）。
// 无命中返回空切片而非错误。
func (s *ProductService) Search(ctx context.Context, keyword string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 5
	}
	pattern := "%" + keyword + "%"
	var products []Product
	err := s.db.WithContext(ctx).
		Where("category LIKE ? OR category_english LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

// TicketService 工单服务。
type TicketService struct {
	db *gorm.DB
}

// NewTicketService 创建工单服务。
func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

// Create 建立新工单，状态为 open。
func (s *TicketService) Create(ctx context.Context, tenantID, subject, description, orderID string) (*SupportTicket, error) {
	ticket := &SupportTicket{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Subject:     subject,
		Description: description,
		OrderID:     orderID,
		Status:      TicketStatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticket, nil
}

// FindByTenant 列出某租户的工单，最新在前。
func (s *TicketService) FindByTenant(ctx context.Context, tenantID string, limit int) ([]SupportTicket, error) {
	if limit <= 0 {
		limit = 20
	}
	var tickets []SupportTicket
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("find tickets by tenant: %w", err)
	}
	return tickets, nil
}
