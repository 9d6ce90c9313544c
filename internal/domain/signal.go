package domain

// SignalType identifies the detector that produced a risk signal
type SignalType string

const (
	SignalFrequencyAcceleration  SignalType = "FREQUENCY_ACCELERATION"
	SignalHighFailureRate        SignalType = "HIGH_FAILURE_RATE"
	SignalAmountDeviation        SignalType = "AMOUNT_DEVIATION"
	SignalMultipleBankAccounts   SignalType = "MULTIPLE_BANK_ACCOUNTS"
	SignalRecentRejections       SignalType = "RECENT_REJECTIONS"
	SignalPolicyViolationDensity SignalType = "POLICY_VIOLATION_DENSITY"
)

// Severity classifies the magnitude of a single signal
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// severityWeights maps severities onto an ordinal scale for averaging
var severityWeights = map[Severity]int{
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

// Weight returns the ordinal weight of a severity (LOW=1, MEDIUM=2, HIGH=3)
func (s Severity) Weight() int {
	return severityWeights[s]
}

// SeverityFromWeight maps an ordinal value back to the nearest severity band
func SeverityFromWeight(w int) Severity {
	switch {
	case w >= 3:
		return SeverityHigh
	case w == 2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// RiskSignal is one detected risk indicator for a user. Signals are computed
// fresh on every evaluation and are never stored.
type RiskSignal struct {
	Type        SignalType        `json:"signal_type"`
	Severity    Severity          `json:"severity"`
	Score       int               `json:"score"` // 0-100
	Explanation string            `json:"explanation"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
