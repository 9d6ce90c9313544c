package risk

import (
	"fmt"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// FailureRateDetector flags users with an elevated share of FAILED or
// REJECTED withdrawals across their full history.
type FailureRateDetector struct{}

const (
	failureRateTrigger = 0.10
	minFailureCount    = 2
)

func (d *FailureRateDetector) Type() domain.SignalType {
	return domain.SignalHighFailureRate
}

func (d *FailureRateDetector) Detect(w Windows) *domain.RiskSignal {
	total := len(w.All)
	if total == 0 {
		return nil
	}

	failures := 0
	for i := range w.All {
		if w.All[i].IsFailure() {
			failures++
		}
	}
	if failures < minFailureCount {
		return nil
	}

	rate := float64(failures) / float64(total)
	if rate < failureRateTrigger {
		return nil
	}

	// Band boundaries are inclusive upward: exactly 20% is MEDIUM.
	var severity domain.Severity
	var score int
	switch {
	case rate >= 0.40:
		severity = domain.SeverityHigh
		score = bandScore(rate, 0.40, 1.0, 70, 100)
	case rate >= 0.20:
		severity = domain.SeverityMedium
		score = bandScore(rate, 0.20, 0.40, 40, 70)
	default:
		severity = domain.SeverityLow
		score = bandScore(rate, 0.10, 0.20, 20, 40)
	}

	return &domain.RiskSignal{
		Type:     domain.SignalHighFailureRate,
		Severity: severity,
		Score:    score,
		Explanation: fmt.Sprintf(
			"%.0f%% of withdrawals failed or were rejected (%d of %d)",
			rate*100, failures, total,
		),
		Metadata: map[string]string{
			"failure_rate":  fmt.Sprintf("%.4f", rate),
			"failure_count": fmt.Sprintf("%d", failures),
			"total_count":   fmt.Sprintf("%d", total),
		},
	}
}
