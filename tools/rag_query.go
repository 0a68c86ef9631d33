package tools

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/llm"
	"github.com/kefuflow/kefuflow/rag"
	"github.com/kefuflow/kefuflow/types"
)

// ragSystemPrompt 是 RAG 回答的系统提示词。
const ragSystemPrompt = "你是一个专业的电商客服助手。根据提供的知识库内容回答用户的问题。" +
	"请确保回答准确、有帮助，并引用知识库中的相关信息。" +
	"如果知识库中没有相关信息，请诚实告知。"

// noKnowledgeAnswer 是检索零命中时的说明性回答。
const noKnowledgeAnswer = "知识库中没有找到相关信息。"

const (
	defaultTopK           = 5
	defaultScoreThreshold = 0.3
)

// Retriever 是 RAGQuery 依赖的检索接口。
type Retriever interface {
	Retrieve(ctx context.Context, tenantID string, kbIDs []string, query string, topK int, scoreThreshold float64) ([]rag.SearchResult, error)
}

// RAGQuery 查询知识库并生成带来源的回答。
type RAGQuery struct {
	retriever Retriever
	provider  llm.Provider
	logger    *zap.Logger
}

// NewRAGQuery 创建 RAG 查询工具。
func NewRAGQuery(retriever Retriever, provider llm.Provider, logger *zap.Logger) *RAGQuery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RAGQuery{
		retriever: retriever,
		provider:  provider,
		logger:    logger.With(zap.String("tool", "rag_query")),
	}
}

// Name 实现 Tool。
func (t *RAGQuery) Name() types.Capability { return types.CapabilityRAGQuery }

// Invoke 实现 Tool。零命中是 success=true 加说明性回答与空来源，不是失败。
func (t *RAGQuery) Invoke(ctx context.Context, inv Invocation) Result {
	topK := inv.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	threshold := inv.ScoreThreshold
	if threshold <= 0 {
		threshold = defaultScoreThreshold
	}

	hits, err := t.retriever.Retrieve(ctx, inv.TenantID, inv.KBIDs, inv.UserMessage, topK, threshold)
	if err != nil {
		t.logger.Error("retrieval failed", zap.Error(err))
		return Result{Success: false, Error: err.Error()}
	}

	if len(hits) == 0 {
		return Result{
			Success: true,
			Data:    map[string]any{"answer": noKnowledgeAnswer},
			Sources: []types.Source{},
		}
	}

	contents := make([]string, 0, len(hits))
	sources := make([]types.Source, 0, len(hits))
	for _, h := range hits {
		contents = append(contents, h.Document.Content)
		sources = append(sources, h.Source())
	}

	result, err := t.provider.Generate(ctx, &llm.GenerateRequest{
		SystemPrompt: ragSystemPrompt,
		UserMessage:  inv.UserMessage,
		Context:      strings.Join(contents, "\n---\n"),
	})
	if err != nil {
		t.logger.Error("rag answer generation failed", zap.Error(err))
		return Result{Success: false, Error: err.Error()}
	}

	usage := result.Usage
	return Result{
		Success: true,
		Data:    map[string]any{"answer": result.Text},
		Sources: sources,
		Usage:   &usage,
	}
}
