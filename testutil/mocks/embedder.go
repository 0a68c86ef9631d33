package mocks

import (
	"context"
	"sync"
)

// MockEmbedder 是 rag.Embedder 的确定性模拟实现。
// 把文本按字符散列到固定维度向量，相同文本得到相同向量，
// 共享字符越多的文本余弦相似度越高。
type MockEmbedder struct {
	mu    sync.Mutex
	dim   int
	err   error
	calls int
}

// NewMockEmbedder 创建 MockEmbedder，默认 32 维。
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{dim: 32}
}

// WithError 注入错误，所有调用返回该错误。
func (m *MockEmbedder) WithError(err error) *MockEmbedder {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// EmbedQuery 实现 rag.Embedder。
func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	dim := m.dim
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, dim)
	for _, r := range text {
		vec[int(r)%dim]++
	}
	return vec, nil
}

// CallCount 返回累计调用次数。
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
