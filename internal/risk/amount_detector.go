package risk

import (
	"fmt"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// AmountDeviationDetector flags users whose recent average withdrawal amount
// diverges sharply from their historical average, in either direction.
type AmountDeviationDetector struct{}

const (
	minTotalForDeviation = 5
	deviationTrigger     = 2.0
)

func (d *AmountDeviationDetector) Type() domain.SignalType {
	return domain.SignalAmountDeviation
}

func (d *AmountDeviationDetector) Detect(w Windows) *domain.RiskSignal {
	if len(w.All) < minTotalForDeviation || len(w.Last7Days) == 0 {
		return nil
	}

	historicalAvg := w.HistoricalAverageAmount()
	if historicalAvg <= 0 {
		return nil
	}

	recentAvg := w.RecentAverageAmount()
	ratio := recentAvg / historicalAvg

	// Deviation magnitude is symmetric: a 0.4x drop deviates as much as a
	// 2.5x spike.
	deviation := ratio
	direction := "above"
	if ratio < 1 {
		deviation = 1 / ratio
		direction = "below"
	}
	if deviation < deviationTrigger {
		return nil
	}

	// Unlike the other detectors, the exact 2x/0.5x trigger boundary itself
	// classifies as LOW.
	var severity domain.Severity
	var score int
	switch {
	case deviation >= 3.0:
		severity = domain.SeverityHigh
		score = bandScore(deviation, 3.0, 5.0, 55, 70)
	case deviation > 2.0:
		severity = domain.SeverityMedium
		score = bandScore(deviation, 2.0, 3.0, 35, 55)
	default:
		severity = domain.SeverityLow
		score = 30
	}

	return &domain.RiskSignal{
		Type:     domain.SignalAmountDeviation,
		Severity: severity,
		Score:    score,
		Explanation: fmt.Sprintf(
			"recent average withdrawal %.2f is %.2fx %s the historical average %.2f",
			recentAvg, deviation, direction, historicalAvg,
		),
		Metadata: map[string]string{
			"recent_average":     fmt.Sprintf("%.2f", recentAvg),
			"historical_average": fmt.Sprintf("%.2f", historicalAvg),
			"ratio":              fmt.Sprintf("%.2f", ratio),
			"deviation":          fmt.Sprintf("%.2f", deviation),
			"direction":          direction,
		},
	}
}
