// Package tokenizer 提供 token 计数能力，供用量估算与上下文裁剪使用。
package tokenizer

// Tokenizer 是统一的 token 计数接口。
type Tokenizer interface {
	// CountTokens 返回给定文本的 token 数。
	CountTokens(text string) (int, error)

	// Name 返回分词器的名称。
	Name() string
}

// Estimator 提供基于字符的粗略 token 估算，
// 中文字符约 1.5 字符/token，其余约 4 字符/token。
// 适用于无法加载模型编码表的离线与测试场景。
type Estimator struct{}

// NewEstimator 创建估算分词器。
func NewEstimator() *Estimator {
	return &Estimator{}
}

// CountTokens 估算文本 token 数。非空文本至少返回 1。
func (e *Estimator) CountTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	var cjk, other int
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			cjk++
		} else {
			other++
		}
	}
	tokens := float64(cjk)/1.5 + float64(other)/4.0
	if tokens < 1 {
		return 1, nil
	}
	return int(tokens), nil
}

// Name 返回分词器名称。
func (e *Estimator) Name() string { return "estimator" }
