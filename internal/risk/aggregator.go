package risk

import (
	"math"
	"sort"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// positionalWeights give diminishing influence to lower-ranked signals: one
// severe signal dominates, corroborating signals still raise the score.
var positionalWeights = []float64{1.0, 0.8, 0.6, 0.4, 0.3, 0.2}

// SortSignalsByScore orders signals descending by score in place, breaking
// ties by signal type so the ordering is deterministic.
func SortSignalsByScore(signals []domain.RiskSignal) {
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].Score != signals[j].Score {
			return signals[i].Score > signals[j].Score
		}
		return signals[i].Type < signals[j].Type
	})
}

// AggregateScore combines detected signals into one overall score: sort
// descending, weight the top signals positionally, and take the weighted
// mean. Input order is irrelevant; the empty list scores 0.
func AggregateScore(signals []domain.RiskSignal) int {
	if len(signals) == 0 {
		return 0
	}

	sorted := make([]domain.RiskSignal, len(signals))
	copy(sorted, signals)
	SortSignalsByScore(sorted)

	if len(sorted) > len(positionalWeights) {
		sorted = sorted[:len(positionalWeights)]
	}

	var weightedSum, weightTotal float64
	for i := range sorted {
		weightedSum += float64(sorted[i].Score) * positionalWeights[i]
		weightTotal += positionalWeights[i]
	}

	score := int(math.Round(weightedSum / weightTotal))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
