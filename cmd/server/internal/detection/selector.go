package detection

// Token estimation and tier boundaries. Four characters per token is
// the usual heuristic for English transcripts.
const (
	charsPerToken = 4

	largeContextTokenThreshold = 100_000
	lightweightTokenThreshold  = 5_000
)

// EstimateTokens approximates the token volume of a transcript.
func EstimateTokens(transcript string) int {
	return len(transcript) / charsPerToken
}

// SelectTier maps estimated token volume (and meeting category) to a
// processing tier. Pure function: no state, no I/O.
//
// Short meetings only drop to the lightweight tier for low-complexity
// categories; a short meeting in a demanding category still gets the
// standard tier.
func SelectTier(transcript, category string) Tier {
	tokens := EstimateTokens(transcript)
	switch {
	case tokens > largeContextTokenThreshold:
		return TierLargeContext
	case tokens < lightweightTokenThreshold && lowComplexityCategory(category):
		return TierLightweight
	default:
		return TierStandard
	}
}

func lowComplexityCategory(category string) bool {
	switch category {
	case "", FallbackCategory, "internal-sync":
		return true
	default:
		return false
	}
}
