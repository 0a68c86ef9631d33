package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SeedDemoData 种子示例数据，仅用于开发环境。
// 数据已存在时不重复写入。
func SeedDemoData(db *gorm.DB) error {
	var count int64
	db.Model(&Order{}).Count(&count)
	if count > 0 {
		return nil // Data already seeded
	}

	now := time.Now()
	orders := []Order{
		{OrderID: "ORD-10001", TenantID: "demo-tenant", Status: OrderStatusShipped, ProductCategory: "electronics", Price: 299.00, PurchasedAt: now.AddDate(0, 0, -3), EstimatedDelivery: now.AddDate(0, 0, 2)},
		{OrderID: "ORD-10002", TenantID: "demo-tenant", Status: OrderStatusDelivered, ProductCategory: "housewares", Price: 58.50, PurchasedAt: now.AddDate(0, 0, -10), EstimatedDelivery: now.AddDate(0, 0, -5)},
		{OrderID: "ORD-10003", TenantID: "demo-tenant", Status: OrderStatusPending, ProductCategory: "toys", Price: 129.90, PurchasedAt: now.AddDate(0, 0, -1), EstimatedDelivery: now.AddDate(0, 0, 6)},
	}
	for _, o := range orders {
		if err := db.Create(&o).Error; err != nil {
			return fmt.Errorf("failed to seed order %s: %w", o.OrderID, err)
		}
	}

	products := []Product{
		{ProductID: "prod-001", Category: "电子产品", CategoryEnglish: "electronics", WeightGrams: 450},
		{ProductID: "prod-002", Category: "家居用品", CategoryEnglish: "housewares", WeightGrams: 1200},
		{ProductID: "prod-003", Category: "玩具", CategoryEnglish: "toys", WeightGrams: 300},
		{ProductID: "prod-004", Category: "电子配件", CategoryEnglish: "electronics_accessories", WeightGrams: 80},
	}
	for _, p := range products {
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ProductID, err)
		}
	}

	return nil
}
