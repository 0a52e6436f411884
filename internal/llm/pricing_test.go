package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCostUSD(t *testing.T) {
	// 1M input + 100K output at $3/$15 per million
	assert.Equal(t, 4.5, EstimateCostUSD(1_000_000, 100_000))
}

func TestEstimateCostUSD_ZeroTokens(t *testing.T) {
	assert.Zero(t, EstimateCostUSD(0, 0))
}

func TestEstimateCostUSD_RoundsToLedgerPrecision(t *testing.T) {
	// 1234 input tokens = $0.003702, 567 output tokens = $0.008505
	assert.Equal(t, 0.0122, EstimateCostUSD(1234, 567))
}
