package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kefuflow/kefuflow/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Init(db))
	return db
}

func TestOrderService_Lookup(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	require.NoError(t, SeedDemoData(db))
	svc := NewOrderService(db)

	order, err := svc.Lookup(context.Background(), "ORD-10001")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, order.Status)
	assert.Equal(t, "electronics", order.ProductCategory)
	assert.InDelta(t, 299.00, order.Price, 1e-9)

	_, err = svc.Lookup(context.Background(), "ORD-99999")
	require.Error(t, err)
	assert.Equal(t, types.ErrNotFound, types.GetErrorCode(err))
}

func TestOrderService_ListByStatus(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	require.NoError(t, SeedDemoData(db))
	svc := NewOrderService(db)

	orders, err := svc.ListByStatus(context.Background(), "demo-tenant", OrderStatusShipped, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-10001", orders[0].OrderID)

	orders, err = svc.ListByStatus(context.Background(), "other-tenant", OrderStatusShipped, 10)
	require.NoError(t, err)
	assert.Empty(t, orders, "tenant filter applies")
}

func TestProductService_Search(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	require.NoError(t, SeedDemoData(db))
	svc := NewProductService(db)

	products, err := svc.Search(context.Background(), "electronics", 10)
	require.NoError(t, err)
	assert.Len(t, products, 2, "matches both electronics categories")

	products, err = svc.Search(context.Background(), "电子", 10)
	require.NoError(t, err)
	assert.Len(t, products, 2, "chinese category names match too")

	// 无命中是空结果，不是错误。
	products, err = svc.Search(context.Background(), "不存在的类目", 10)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductService_SearchLimit(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := NewProductService(db)

	for i := 0; i < 10; i++ {
		require.NoError(t, db.Create(&Product{
			ProductID:       fmt.Sprintf("bulk-%d", i),
			Category:        "图书",
			CategoryEnglish: "books",
		}).Error)
	}

	products, err := svc.Search(context.Background(), "books", 3)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	// limit <= 0 回落到默认 5。
	products, err = svc.Search(context.Background(), "books", 0)
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestTicketService_CreateAndFind(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := NewTicketService(db)

	ticket, err := svc.Create(context.Background(), "tenant-a", "物流延误", "订单 ORD-10001 超过预计送达时间", "ORD-10001")
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, TicketStatusOpen, ticket.Status)
	assert.Equal(t, "ORD-10001", ticket.OrderID)

	_, err = svc.Create(context.Background(), "tenant-b", "其他问题", "描述", "")
	require.NoError(t, err)

	tickets, err := svc.FindByTenant(context.Background(), "tenant-a", 10)
	require.NoError(t, err)
	require.Len(t, tickets, 1, "tenant isolation")
	assert.Equal(t, ticket.ID, tickets[0].ID)
}

func TestSeedDemoData_Idempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	require.NoError(t, SeedDemoData(db))
	require.NoError(t, SeedDemoData(db))

	var count int64
	db.Model(&Order{}).Count(&count)
	assert.EqualValues(t, 3, count)
}
