package llm

import "math"

// Per-million-token pricing for the vision/text models used by the tagging pipelines
const (
	inputCostPerMillionTokens  = 3.0
	outputCostPerMillionTokens = 15.0
)

// EstimateCostUSD converts token counts into an estimated dollar cost,
// rounded to the cent-fraction precision used by the cost ledger.
func EstimateCostUSD(inputTokens, outputTokens int) float64 {
	cost := float64(inputTokens)/1e6*inputCostPerMillionTokens +
		float64(outputTokens)/1e6*outputCostPerMillionTokens
	return math.Round(cost*10000) / 10000
}
