package risk

import (
	"fmt"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// PolicyViolationDetector flags users repeatedly rejected for limit or
// policy reasons in the last 30 days, identified by keywords in the
// free-text rejection reason.
type PolicyViolationDetector struct{}

func (d *PolicyViolationDetector) Type() domain.SignalType {
	return domain.SignalPolicyViolationDensity
}

func (d *PolicyViolationDetector) Detect(w Windows) *domain.RiskSignal {
	violations := 0
	for i := range w.Last30Days {
		if w.Last30Days[i].IsPolicyRejection() {
			violations++
		}
	}
	if violations == 0 {
		return nil
	}

	var severity domain.Severity
	var score int
	switch {
	case violations >= 5:
		severity = domain.SeverityHigh
		score = 65 + 2*(violations-5)
		if score > 75 {
			score = 75
		}
	case violations >= 3:
		severity = domain.SeverityMedium
		score = 50 + 8*(violations-3)
	default:
		severity = domain.SeverityLow
		score = 30 + 10*(violations-1)
	}

	return &domain.RiskSignal{
		Type:     domain.SignalPolicyViolationDensity,
		Severity: severity,
		Score:    score,
		Explanation: fmt.Sprintf(
			"%d withdrawal(s) rejected for limit/policy reasons in the last 30 days",
			violations,
		),
		Metadata: map[string]string{
			"violation_count": fmt.Sprintf("%d", violations),
			"window_count":    fmt.Sprintf("%d", len(w.Last30Days)),
		},
	}
}
