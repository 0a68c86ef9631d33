package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimator_CountTokens(t *testing.T) {
	t.Parallel()

	est := NewEstimator()

	n, err := est.CountTokens("")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = est.CountTokens("a")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "non-empty text counts at least one token")

	en, err := est.CountTokens("hello world this is a test sentence")
	require.NoError(t, err)
	zh, err2 := est.CountTokens("退貨政策為三十天內可退貨請保持商品完整無缺")
	require.NoError(t, err2)
	assert.Greater(t, en, 0)
	assert.Greater(t, zh, en/2, "CJK text is denser per character")
}

func TestForModel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "estimator", ForModel("").Name())
	assert.Equal(t, "tiktoken/o200k_base", ForModel("gpt-4o").Name())
	assert.Equal(t, "tiktoken/cl100k_base", ForModel("some-new-model").Name())
}
