package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/store"
	"github.com/kefuflow/kefuflow/types"
)

// ProductFinder 是商品搜索工具依赖的数据接口。
type ProductFinder interface {
	Search(ctx context.Context, keyword string, limit int) ([]store.Product, error)
}

// ProductSearch 按关键字搜索商品。
type ProductSearch struct {
	products ProductFinder
	limit    int
	logger   *zap.Logger
}

// NewProductSearch 创建商品搜索工具。
func NewProductSearch(products ProductFinder, logger *zap.Logger) *ProductSearch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductSearch{
		products: products,
		limit:    5,
		logger:   logger.With(zap.String("tool", "product_search")),
	}
}

// Name 实现 Tool。
func (t *ProductSearch) Name() types.Capability { return types.CapabilityProductSearch }

// Invoke 实现 Tool。零命中是 success=true 加空列表。
func (t *ProductSearch) Invoke(ctx context.Context, inv Invocation) Result {
	products, err := t.products.Search(ctx, inv.UserMessage, t.limit)
	if err != nil {
		t.logger.Error("product search failed", zap.Error(err))
		return Result{Success: false, Error: err.Error()}
	}

	items := make([]map[string]any, 0, len(products))
	for _, p := range products {
		items = append(items, map[string]any{
			"product_id":       p.ProductID,
			"category":         p.Category,
			"category_english": p.CategoryEnglish,
			"weight_g":         p.WeightGrams,
		})
	}

	return Result{
		Success: true,
		Data: map[string]any{
			"products": items,
			"count":    len(items),
		},
	}
}
