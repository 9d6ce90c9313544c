package risk

import (
	"fmt"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// FrequencyAccelerationDetector flags users whose recent withdrawal cadence
// outpaces their historical baseline.
type FrequencyAccelerationDetector struct{}

// Minimum historical sample before a baseline is trusted
const minHistoricalWithdrawals = 10

const accelerationTrigger = 1.5

func (d *FrequencyAccelerationDetector) Type() domain.SignalType {
	return domain.SignalFrequencyAcceleration
}

func (d *FrequencyAccelerationDetector) Detect(w Windows) *domain.RiskSignal {
	if len(w.Historical) < minHistoricalWithdrawals {
		return nil
	}

	historicalRate := w.HistoricalWeeklyRate()
	if historicalRate <= 0 {
		return nil
	}

	recentRate := float64(len(w.Last7Days))
	ratio := recentRate / historicalRate
	if ratio < accelerationTrigger {
		return nil
	}

	var severity domain.Severity
	var score int
	switch {
	case ratio >= 3.0:
		severity = domain.SeverityHigh
		score = bandScore(ratio, 3.0, 5.0, 70, 100)
	case ratio >= 2.0:
		severity = domain.SeverityMedium
		score = bandScore(ratio, 2.0, 3.0, 40, 70)
	default:
		severity = domain.SeverityLow
		score = bandScore(ratio, 1.5, 2.0, 20, 40)
	}

	return &domain.RiskSignal{
		Type:     domain.SignalFrequencyAcceleration,
		Severity: severity,
		Score:    score,
		Explanation: fmt.Sprintf(
			"withdrawal frequency accelerated %.2fx: %d withdrawals in the last 7 days vs a historical rate of %.2f per week",
			ratio, len(w.Last7Days), historicalRate,
		),
		Metadata: map[string]string{
			"acceleration_ratio":     fmt.Sprintf("%.2f", ratio),
			"recent_weekly_count":    fmt.Sprintf("%d", len(w.Last7Days)),
			"historical_weekly_rate": fmt.Sprintf("%.2f", historicalRate),
			"historical_count":       fmt.Sprintf("%d", len(w.Historical)),
		},
	}
}
