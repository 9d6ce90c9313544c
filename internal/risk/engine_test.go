package risk

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banking/withdrawal-risk-service/internal/config"
	"github.com/banking/withdrawal-risk-service/internal/domain"
	"github.com/banking/withdrawal-risk-service/internal/pkg/logger"
)

func newTestEngine(repo WithdrawalRepository) *Engine {
	cfg := &config.RiskConfig{ScanConcurrency: 4, DefaultMinScore: 70, DefaultLimit: 50}
	return NewEngine(repo, DefaultDetectors(), cfg, logger.NewNop())
}

// riskyHistory produces a history that reliably crosses the high-risk
// threshold: heavy failure rate, account spread and fresh policy rejections.
func riskyHistory(userID uuid.UUID) []domain.WithdrawalRecord {
	var history []domain.WithdrawalRecord
	for i := 0; i < 6; i++ {
		history = append(history, record(userID, days(i+1),
			withRejectionReason("daily limit exceeded"),
			withBankAccount(uuid.New()),
		))
	}
	for i := 0; i < 4; i++ {
		history = append(history, record(userID, days(10+i)))
	}
	return history
}

func TestComputeUserRiskProfile_NoHistoryIsLowProfile(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	userID := uuid.New()

	profile, err := engine.ComputeUserRiskProfile(context.Background(), userID, evalTime)

	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, domain.RiskLevelLow, profile.RiskLevel)
	assert.Equal(t, 0, profile.OverallScore)
	assert.Empty(t, profile.ActiveSignals)
	assert.Equal(t, evalTime, profile.EvaluatedAt)
	assert.Zero(t, profile.EvaluationContext.TotalWithdrawals)
}

func TestComputeUserRiskProfile_ZeroNowIsInvalidParameter(t *testing.T) {
	engine := newTestEngine(newFakeRepo())

	_, err := engine.ComputeUserRiskProfile(context.Background(), uuid.New(), time.Time{})

	require.Error(t, err)
	assert.True(t, domain.IsInvalidParameter(err))
}

func TestComputeUserRiskProfile_RepoFailureIsDataSourceUnavailable(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	repo.add(userID, record(userID, days(1)))
	repo.failUsers[userID] = true

	engine := newTestEngine(repo)
	_, err := engine.ComputeUserRiskProfile(context.Background(), userID, evalTime)

	require.Error(t, err)
	assert.True(t, domain.IsDataSourceUnavailable(err))
}

func TestComputeUserRiskProfile_Deterministic(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	repo.add(userID, riskyHistory(userID)...)

	engine := newTestEngine(repo)

	first, err := engine.ComputeUserRiskProfile(context.Background(), userID, evalTime)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := engine.ComputeUserRiskProfile(context.Background(), userID, evalTime)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeUserRiskProfile_HighRiskUser(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	repo.add(userID, riskyHistory(userID)...)

	engine := newTestEngine(repo)
	profile, err := engine.ComputeUserRiskProfile(context.Background(), userID, evalTime)

	require.NoError(t, err)
	assert.Equal(t, domain.RiskLevelHigh, profile.RiskLevel)
	assert.GreaterOrEqual(t, profile.OverallScore, 70)
	assert.NotEmpty(t, profile.ActiveSignals)

	// Signals are ordered by score descending and every score is in range.
	for i, s := range profile.ActiveSignals {
		assert.GreaterOrEqual(t, s.Score, 0)
		assert.LessOrEqual(t, s.Score, 100)
		if i > 0 {
			assert.LessOrEqual(t, s.Score, profile.ActiveSignals[i-1].Score)
		}
	}
}

func TestComputeUserRiskProfile_EvaluationContext(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()

	repo.add(userID,
		record(userID, 2*time.Hour),
		record(userID, days(3)),
		record(userID, days(10), withStatus(domain.WithdrawalStatusFailed)),
		record(userID, days(20), withStatus(domain.WithdrawalStatusRejected)),
		record(userID, days(40)),
		record(userID, days(50), withStatus(domain.WithdrawalStatusPending)),
	)

	engine := newTestEngine(repo)
	profile, err := engine.ComputeUserRiskProfile(context.Background(), userID, evalTime)
	require.NoError(t, err)

	ec := profile.EvaluationContext
	assert.Equal(t, 6, ec.TotalWithdrawals)
	assert.Equal(t, 2, ec.Last7Days)
	assert.Equal(t, 4, ec.Last30Days)
	assert.InDelta(t, 0.5, ec.SuccessRate, 0.001)  // 3 completed of 6
	assert.InDelta(t, 2.0/6.0, ec.FailureRate, 0.001)

	// Most recent withdrawal stamps the profile.
	assert.Equal(t, evalTime.Add(-2*time.Hour), profile.LastWithdrawalAt)
}
