package rag

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/types"
)

// Document 是知识库里的一个分块。
type Document struct {
	ID           string    `json:"id"`
	KBID         string    `json:"kb_id"`
	TenantID     string    `json:"tenant_id"`
	DocumentName string    `json:"document_name"`
	Content      string    `json:"content"`
	Embedding    []float64 `json:"embedding,omitempty"`
}

// SearchResult 是一次向量搜索的单条命中。
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// snippetLimit 是来源摘录的最大字符数。
const snippetLimit = 200

// Source 把命中转换为回复附带的来源引用，摘录截断到 200 字符。
func (r SearchResult) Source() types.Source {
	snippet := r.Document.Content
	if runes := []rune(snippet); len(runes) > snippetLimit {
		snippet = string(runes[:snippetLimit])
	}
	return types.Source{
		DocumentName:   r.Document.DocumentName,
		ContentSnippet: snippet,
		Score:          r.Score,
		ChunkID:        r.Document.ID,
	}
}

// Embedder 把文本向量化。
type Embedder interface {
	// EmbedQuery 返回查询文本的向量表示。
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

// SearchOptions 是一次向量搜索的过滤条件。
type SearchOptions struct {
	// TenantID 非空时只返回该租户的分块。
	TenantID string
	// TopK 是单库返回的最大命中数。
	TopK int
	// ScoreThreshold 以下的命中被丢弃。
	ScoreThreshold float64
}

// VectorStore 是向量数据库的最小接口。
// 生产实现（Qdrant、Milvus 等）由调用方接入，本包只依赖搜索。
type VectorStore interface {
	Search(ctx context.Context, kbID string, queryEmbedding []float64, opts SearchOptions) ([]SearchResult, error)
}

// Retriever 跨一个或多个知识库做检索。
type Retriever struct {
	embedder Embedder
	store    VectorStore
	logger   *zap.Logger
}

// NewRetriever 创建检索器。
func NewRetriever(embedder Embedder, store VectorStore, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   logger.With(zap.String("component", "retriever")),
	}
}

// Retrieve 对 query 做一次向量化，依序搜索 kbIDs 中的每个知识库，
// 合并全部命中并按分数降序返回。空结果返回空切片而非错误。
func (r *Retriever) Retrieve(ctx context.Context, tenantID string, kbIDs []string, query string, topK int, scoreThreshold float64) ([]SearchResult, error) {
	if len(kbIDs) == 0 {
		return nil, nil
	}

	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	opts := SearchOptions{
		TenantID:       tenantID,
		TopK:           topK,
		ScoreThreshold: scoreThreshold,
	}

	var merged []SearchResult
	for _, kbID := range kbIDs {
		results, err := r.store.Search(ctx, kbID, embedding, opts)
		if err != nil {
			return nil, fmt.Errorf("search kb %s: %w", kbID, err)
		}
		merged = append(merged, results...)
	}

	// 跨库合并后需要重新排序。
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	r.logger.Debug("retrieval completed",
		zap.Int("kb_count", len(kbIDs)),
		zap.Int("hits", len(merged)))

	return merged, nil
}
