package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// MemoryStore 是内存向量存储，按知识库分桶，用余弦相似度打分。
// 用于测试和小规模应用。
type MemoryStore struct {
	mu     sync.RWMutex
	byKB   map[string][]Document
	logger *zap.Logger
}

// NewMemoryStore 创建内存向量存储。
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		byKB:   make(map[string][]Document),
		logger: logger.With(zap.String("component", "memory_vector_store")),
	}
}

// AddDocuments 添加文档到其所属知识库。
func (s *MemoryStore) AddDocuments(ctx context.Context, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if doc.Embedding == nil {
			return fmt.Errorf("document %s has no embedding", doc.ID)
		}
		s.byKB[doc.KBID] = append(s.byKB[doc.KBID], doc)
	}

	s.logger.Info("documents added to vector store",
		zap.Int("count", len(docs)))
	return nil
}

// Search 实现 VectorStore。按租户过滤、按分数阈值过滤，返回 Top-K。
func (s *MemoryStore) Search(ctx context.Context, kbID string, queryEmbedding []float64, opts SearchOptions) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.byKB[kbID]
	if len(docs) == 0 {
		return []SearchResult{}, nil
	}

	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		if opts.TenantID != "" && doc.TenantID != opts.TenantID {
			continue
		}
		score := cosineSimilarity(queryEmbedding, doc.Embedding)
		if score < opts.ScoreThreshold {
			continue
		}
		results = append(results, SearchResult{Document: doc, Score: score})
	}

	sortByScore(results)

	if opts.TopK > 0 && opts.TopK < len(results) {
		results = results[:opts.TopK]
	}
	return results, nil
}

// Count 返回某知识库内的文档数。
func (s *MemoryStore) Count(kbID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKB[kbID])
}

// cosineSimilarity 计算余弦相似度，长度不一致或零向量返回 0。
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// sortByScore 按分数降序排序。
func sortByScore(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
