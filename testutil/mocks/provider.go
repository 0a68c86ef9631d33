// MockProvider 是 llm.Provider 的测试模拟实现。
//
// 支持固定响应、流式输出与错误注入场景。
package mocks

import (
	"context"
	"sync"

	"github.com/kefuflow/kefuflow/llm"
	"github.com/kefuflow/kefuflow/llm/tokenizer"
	"github.com/kefuflow/kefuflow/types"
)

// MockProvider 是 llm.Provider 的模拟实现。
type MockProvider struct {
	mu sync.Mutex

	// 响应配置
	response     string
	streamChunks []string
	err          error
	model        string

	// 按请求定制响应；返回空串时回落到固定响应。
	generateFunc func(req *llm.GenerateRequest) string

	// 调用记录
	calls []llm.GenerateRequest

	tok tokenizer.Tokenizer
}

// NewMockProvider 创建 MockProvider。
func NewMockProvider() *MockProvider {
	return &MockProvider{
		response: "mock response",
		model:    "mock-model",
		tok:      tokenizer.NewEstimator(),
	}
}

// WithResponse 设置固定响应内容。
func (m *MockProvider) WithResponse(response string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
	return m
}

// WithStreamChunks 设置流式输出分片。
func (m *MockProvider) WithStreamChunks(chunks ...string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamChunks = chunks
	return m
}

// WithError 注入错误，所有调用返回该错误。
func (m *MockProvider) WithError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithModel 设置用量记录中的模型名。
func (m *MockProvider) WithModel(model string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model = model
	return m
}

// WithGenerateFunc 按请求定制响应内容。
func (m *MockProvider) WithGenerateFunc(fn func(req *llm.GenerateRequest) string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateFunc = fn
	return m
}

// Name 实现 llm.Provider。
func (m *MockProvider) Name() string { return "mock" }

// Generate 实现 llm.Provider。用量按估算分词器计数。
func (m *MockProvider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, *req)
	err := m.err
	text := m.response
	if m.generateFunc != nil {
		if custom := m.generateFunc(req); custom != "" {
			text = custom
		}
	}
	model := m.model
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return &llm.GenerateResult{
		Text:  text,
		Usage: m.usageFor(req, text, model),
	}, nil
}

// GenerateStream 实现 llm.Provider。未配置分片时逐字符流式输出固定响应。
func (m *MockProvider) GenerateStream(ctx context.Context, req *llm.GenerateRequest) (<-chan llm.StreamChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, *req)
	err := m.err
	chunks := m.streamChunks
	if len(chunks) == 0 {
		for _, r := range m.response {
			chunks = append(chunks, string(r))
		}
	}
	model := m.model
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	out := make(chan llm.StreamChunk, len(chunks)+1)
	go func() {
		defer close(out)
		var full string
		for _, c := range chunks {
			select {
			case <-ctx.Done():
				return
			case out <- llm.StreamChunk{Token: c}:
				full += c
			}
		}
		usage := m.usageFor(req, full, model)
		out <- llm.StreamChunk{Usage: &usage}
	}()
	return out, nil
}

// CallCount 返回累计调用次数。
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls 返回调用记录副本。
func (m *MockProvider) Calls() []llm.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.GenerateRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall 返回最后一次请求；无调用时返回 false。
func (m *MockProvider) LastCall() (llm.GenerateRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return llm.GenerateRequest{}, false
	}
	return m.calls[len(m.calls)-1], true
}

func (m *MockProvider) usageFor(req *llm.GenerateRequest, text, model string) types.TokenUsage {
	in, _ := m.tok.CountTokens(req.SystemPrompt + req.UserMessage + req.Context)
	out, _ := m.tok.CountTokens(text)
	return types.TokenUsage{
		Model:        model,
		InputTokens:  in,
		OutputTokens: out,
		TotalTokens:  in + out,
	}
}
