package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPricing_Calculate(t *testing.T) {
	t.Parallel()

	pricing := Pricing{
		"claude-sonnet-4-5": {Input: 3.0, Output: 15.0},
	}

	usage := pricing.Calculate("claude-sonnet-4-5", 1_000_000, 200_000)
	assert.Equal(t, "claude-sonnet-4-5", usage.Model)
	assert.Equal(t, 1_200_000, usage.TotalTokens)
	assert.InDelta(t, 3.0+3.0, usage.EstimatedCost, 1e-9)
}

func TestPricing_Calculate_UnknownModel(t *testing.T) {
	t.Parallel()

	usage := DefaultPricing().Calculate("unlisted-model", 1000, 1000)
	assert.Equal(t, 2000, usage.TotalTokens)
	assert.Zero(t, usage.EstimatedCost)
}
