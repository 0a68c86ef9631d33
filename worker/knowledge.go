package worker

import (
	"context"

	"github.com/kefuflow/kefuflow/types"
)

// KnowledgeWorker 是兜底 Worker：所有问题导向知识库回答。
// 作为团队链的末位成员注册，保证链上总有人接手。
type KnowledgeWorker struct {
	answer  string
	sources []types.Source
}

// NewKnowledgeWorker 创建兜底知识 Worker。
func NewKnowledgeWorker() *KnowledgeWorker {
	return &KnowledgeWorker{
		answer: "根据知识库：本公司提供一年保修服务，" +
			"退货政策为 30 天内可退货，请保持商品完整。",
		sources: []types.Source{
			{
				DocumentName:   "保修政策.txt",
				ContentSnippet: "本公司提供一年保修服务，涵盖非人为损坏的维修与更换",
				Score:          0.92,
				ChunkID:        "chunk-builtin-1",
			},
			{
				DocumentName:   "退货政策.txt",
				ContentSnippet: "退货政策为 30 天内可退货",
				Score:          0.9,
				ChunkID:        "chunk-builtin-2",
			},
		},
	}
}

// Name 实现 Worker。
func (w *KnowledgeWorker) Name() string { return "knowledge" }

// CanHandle 实现 Worker：永远为真。
func (w *KnowledgeWorker) CanHandle(ctx context.Context, wc *types.WorkerContext) bool {
	return true
}

// Handle 实现 Worker。
func (w *KnowledgeWorker) Handle(ctx context.Context, wc *types.WorkerContext) (types.WorkerResult, error) {
	answer := w.answer
	if len(wc.ConversationHistory) > 0 {
		answer = "根据先前对话，" + answer
	}
	return types.WorkerResult{
		Answer: answer,
		ToolCalls: []types.ToolCallRecord{
			types.NewToolCallRecord("rag_query", "用户询问知识型问题"),
		},
		Sources: w.sources,
	}, nil
}
