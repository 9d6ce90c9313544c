package risk

import (
	"math"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// Detector inspects one user's windowed withdrawal history and returns at
// most one risk signal. A nil return means "not applicable" (insufficient
// data or no anomaly) and is a normal outcome, not an error. Detectors are
// pure: same windows in, same signal out.
type Detector interface {
	Type() domain.SignalType
	Detect(w Windows) *domain.RiskSignal
}

// DefaultDetectors returns the full detector set in registration order.
// Adding a signal means adding an implementation here; aggregation and
// scanning code never change.
func DefaultDetectors() []Detector {
	return []Detector{
		&FrequencyAccelerationDetector{},
		&FailureRateDetector{},
		&AmountDeviationDetector{},
		&BankAccountDetector{},
		&RecentRejectionDetector{},
		&PolicyViolationDetector{},
	}
}

// bandScore linearly interpolates a magnitude within a severity band onto the
// band's score range. Values outside [lo, hi] clamp to the range edges, which
// keeps every score inside its documented bounds.
func bandScore(value, lo, hi float64, scoreLo, scoreHi int) int {
	if hi <= lo || value <= lo {
		return scoreLo
	}
	if value >= hi {
		return scoreHi
	}
	frac := (value - lo) / (hi - lo)
	return scoreLo + int(math.Round(frac*float64(scoreHi-scoreLo)))
}
