package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// 模型名到 tiktoken 编码的映射；未命中时回落到 cl100k_base。
var modelEncodings = map[string]string{
	"gpt-4o":      "o200k_base",
	"gpt-4o-mini": "o200k_base",
	"gpt-4":       "cl100k_base",
}

// TiktokenTokenizer 使用 tiktoken 编码表做精确计数。
// 编码表首次使用时惰性加载（可能触发数据下载）。
type TiktokenTokenizer struct {
	model    string
	encoding string
	enc      *tiktoken.Tiktoken
	once     sync.Once
	initErr  error
}

// NewTiktoken 为给定模型创建 tiktoken 分词器。
func NewTiktoken(model string) *TiktokenTokenizer {
	encoding, ok := modelEncodings[model]
	if !ok {
		encoding = "cl100k_base"
	}
	return &TiktokenTokenizer{model: model, encoding: encoding}
}

func (t *TiktokenTokenizer) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("init tiktoken encoding %s: %w", t.encoding, err)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

// CountTokens 返回文本的精确 token 数。
func (t *TiktokenTokenizer) CountTokens(text string) (int, error) {
	if err := t.init(); err != nil {
		return 0, err
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}

// Name 返回分词器名称。
func (t *TiktokenTokenizer) Name() string { return "tiktoken/" + t.encoding }

// ForModel 返回模型对应的分词器；tiktoken 初始化失败时
// 调用方可回落到 NewEstimator。
func ForModel(model string) Tokenizer {
	if model == "" {
		return NewEstimator()
	}
	return NewTiktoken(model)
}
