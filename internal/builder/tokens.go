package builder

// Estimator approximates LLM token counts for reporting. The count is never
// used for correctness decisions.
type Estimator interface {
	Estimate(text string) int
}

// HeuristicEstimator approximates 1 token per 4 characters.
type HeuristicEstimator struct{}

// Estimate returns the approximate token count, at least 1 for non-empty text.
func (HeuristicEstimator) Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}
