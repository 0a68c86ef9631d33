package worker

import (
	"regexp"

	"github.com/kefuflow/kefuflow/types"
)

// SentimentAnalyzer 情绪检测接口。
type SentimentAnalyzer interface {
	Analyze(text string) types.SentimentResult
}

var (
	negativeKeywords = regexp.MustCompile(`(?i)投诉|投訴|生气|生氣|不满|不滿|太慢|烂|爛|差劲|差勁|失望|愤怒|憤怒|垃圾|骗人|騙人|退款|ridiculous|angry|terrible`)
	positiveKeywords = regexp.MustCompile(`(?i)谢谢|謝謝|感谢|感謝|很棒|太好了|满意|滿意|excellent|great|thanks|wonderful`)
)

// KeywordSentiment 基于关键字词表的情绪检测。
// 负面词汇命中 ⇒ 建议升级人工。
type KeywordSentiment struct{}

// NewKeywordSentiment 创建关键字情绪检测器。
func NewKeywordSentiment() *KeywordSentiment { return &KeywordSentiment{} }

// Analyze 实现 SentimentAnalyzer。
func (s *KeywordSentiment) Analyze(text string) types.SentimentResult {
	if negativeKeywords.MatchString(text) {
		return types.SentimentResult{
			Sentiment:      "negative",
			Score:          0.8,
			ShouldEscalate: true,
		}
	}
	if positiveKeywords.MatchString(text) {
		return types.SentimentResult{
			Sentiment:      "positive",
			Score:          0.8,
			ShouldEscalate: false,
		}
	}
	return types.SentimentResult{
		Sentiment:      "neutral",
		Score:          0.5,
		ShouldEscalate: false,
	}
}
