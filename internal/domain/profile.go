package domain

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel classifies a profile's overall aggregated score
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// Risk level thresholds on the overall score. Exact by contract.
const (
	HighRiskThreshold   = 70
	MediumRiskThreshold = 40
)

// RiskLevelForScore returns the risk level for an overall score
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskLevelHigh
	case score >= MediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// EvaluationContext carries the history statistics a profile was computed from
type EvaluationContext struct {
	TotalWithdrawals int     `json:"total_withdrawals"`
	Last7Days        int     `json:"last_7_days"`
	Last30Days       int     `json:"last_30_days"`
	SuccessRate      float64 `json:"success_rate"`
	FailureRate      float64 `json:"failure_rate"`
}

// UserRiskProfile is the point-in-time risk assessment for one user.
// Profiles live only for the duration of one computation and one response.
type UserRiskProfile struct {
	UserID            uuid.UUID         `json:"user_id"`
	RiskLevel         RiskLevel         `json:"risk_level"`
	OverallScore      int               `json:"overall_score"` // 0-100
	ActiveSignals     []RiskSignal      `json:"active_signals"`
	EvaluationContext EvaluationContext `json:"evaluation_context"`
	EvaluatedAt       time.Time         `json:"evaluated_at"`

	// LastWithdrawalAt orders tied scores in platform scans; zero when the
	// user has no history.
	LastWithdrawalAt time.Time `json:"last_withdrawal_at,omitempty"`
}

// IsHighRisk returns true if the profile warrants review
func (p *UserRiskProfile) IsHighRisk() bool {
	return p.RiskLevel == RiskLevelHigh
}

// HighRiskUserSummary is a lean projection of a profile for list views
type HighRiskUserSummary struct {
	UserID           uuid.UUID    `json:"user_id"`
	RiskLevel        RiskLevel    `json:"risk_level"`
	OverallScore     int          `json:"overall_score"`
	TopSignals       []RiskSignal `json:"top_signals"`
	LastWithdrawalAt time.Time    `json:"last_withdrawal_at"`
	TotalWithdrawals int          `json:"total_withdrawals"`
}

// maxTopSignals bounds the signals carried in a summary
const maxTopSignals = 3

// ToSummary converts UserRiskProfile to HighRiskUserSummary
func (p *UserRiskProfile) ToSummary() *HighRiskUserSummary {
	top := p.ActiveSignals
	if len(top) > maxTopSignals {
		top = top[:maxTopSignals]
	}
	return &HighRiskUserSummary{
		UserID:           p.UserID,
		RiskLevel:        p.RiskLevel,
		OverallScore:     p.OverallScore,
		TopSignals:       top,
		LastWithdrawalAt: p.LastWithdrawalAt,
		TotalWithdrawals: p.EvaluationContext.TotalWithdrawals,
	}
}

// SignalStat aggregates one signal type across a platform scan
type SignalStat struct {
	Occurrences     int      `json:"occurrences"`
	AverageSeverity Severity `json:"average_severity"`
}

// PlatformRiskSummary is the platform-wide reduction over all user profiles
type PlatformRiskSummary struct {
	TotalUsersAnalyzed int                       `json:"total_users_analyzed"`
	RiskDistribution   map[RiskLevel]int         `json:"risk_distribution"`
	TopSignals         map[SignalType]SignalStat `json:"top_signals"`
	HighRiskUserCount  int                       `json:"high_risk_user_count"`
	EvaluatedAt        time.Time                 `json:"evaluated_at"`
}
