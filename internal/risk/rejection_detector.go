package risk

import (
	"fmt"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// RecentRejectionDetector flags users accumulating rejected withdrawals in
// the last 30 days.
type RecentRejectionDetector struct{}

func (d *RecentRejectionDetector) Type() domain.SignalType {
	return domain.SignalRecentRejections
}

func (d *RecentRejectionDetector) Detect(w Windows) *domain.RiskSignal {
	rejections := 0
	for i := range w.Last30Days {
		if w.Last30Days[i].IsRejected() {
			rejections++
		}
	}
	if rejections == 0 {
		return nil
	}

	var severity domain.Severity
	var score int
	switch {
	case rejections >= 5:
		severity = domain.SeverityHigh
		score = 70 + 2*(rejections-5)
		if score > 80 {
			score = 80
		}
	case rejections >= 3:
		severity = domain.SeverityMedium
		score = 55 + 10*(rejections-3)
	default:
		severity = domain.SeverityLow
		score = 35 + 10*(rejections-1)
	}

	return &domain.RiskSignal{
		Type:     domain.SignalRecentRejections,
		Severity: severity,
		Score:    score,
		Explanation: fmt.Sprintf(
			"%d withdrawal(s) rejected in the last 30 days (%d withdrawals in window)",
			rejections, len(w.Last30Days),
		),
		Metadata: map[string]string{
			"rejection_count": fmt.Sprintf("%d", rejections),
			"window_count":    fmt.Sprintf("%d", len(w.Last30Days)),
		},
	}
}
