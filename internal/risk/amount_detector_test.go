package risk

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// deviationHistory builds four historical withdrawals at historicalAmount
// and one recent withdrawal at recentAmount.
func deviationHistory(userID uuid.UUID, historicalAmount, recentAmount float64) []domain.WithdrawalRecord {
	var history []domain.WithdrawalRecord
	for i := 0; i < 4; i++ {
		age := days(10) + time.Duration(i)*24*time.Hour
		history = append(history, record(userID, age, withAmount(historicalAmount)))
	}
	history = append(history, record(userID, 2*time.Hour, withAmount(recentAmount)))
	return history
}

func TestAmountDeviation_SpikeMedium(t *testing.T) {
	userID := uuid.New()

	// Recent average 250 vs historical 100: 2.5x above.
	history := deviationHistory(userID, 100, 250)
	signal := (&AmountDeviationDetector{}).Detect(NewWindows(evalTime, history))

	require.NotNil(t, signal)
	assert.Equal(t, domain.SignalAmountDeviation, signal.Type)
	assert.Equal(t, domain.SeverityMedium, signal.Severity)
	assert.Equal(t, 45, signal.Score)
	assert.Equal(t, "above", signal.Metadata["direction"])
}

func TestAmountDeviation_DropIsSymmetric(t *testing.T) {
	userID := uuid.New()

	// Recent average 40 vs historical 100: ratio 0.4, deviation 2.5x below.
	history := deviationHistory(userID, 100, 40)
	signal := (&AmountDeviationDetector{}).Detect(NewWindows(evalTime, history))

	require.NotNil(t, signal)
	assert.Equal(t, domain.SeverityMedium, signal.Severity)
	assert.Equal(t, 45, signal.Score)
	assert.Equal(t, "below", signal.Metadata["direction"])
}

func TestAmountDeviation_HighBand(t *testing.T) {
	userID := uuid.New()

	// 3.5x spike lands in the HIGH band.
	history := deviationHistory(userID, 100, 350)
	signal := (&AmountDeviationDetector{}).Detect(NewWindows(evalTime, history))

	require.NotNil(t, signal)
	assert.Equal(t, domain.SeverityHigh, signal.Severity)
	assert.Equal(t, 59, signal.Score)
}

func TestAmountDeviation_ExactDoubleIsLow(t *testing.T) {
	userID := uuid.New()

	// Exactly 2x sits on the trigger boundary, which this detector
	// classifies as LOW.
	history := deviationHistory(userID, 100, 200)
	signal := (&AmountDeviationDetector{}).Detect(NewWindows(evalTime, history))

	require.NotNil(t, signal)
	assert.Equal(t, domain.SeverityLow, signal.Severity)
	assert.Equal(t, 30, signal.Score)
}

func TestAmountDeviation_WithinNormalRange(t *testing.T) {
	userID := uuid.New()

	// 1.5x is inside [0.5x, 2x].
	history := deviationHistory(userID, 100, 150)
	signal := (&AmountDeviationDetector{}).Detect(NewWindows(evalTime, history))

	assert.Nil(t, signal)
}

func TestAmountDeviation_RequiresFiveWithdrawals(t *testing.T) {
	userID := uuid.New()

	history := []domain.WithdrawalRecord{
		record(userID, days(10), withAmount(100)),
		record(userID, days(9), withAmount(100)),
		record(userID, 2*time.Hour, withAmount(500)),
	}
	signal := (&AmountDeviationDetector{}).Detect(NewWindows(evalTime, history))

	assert.Nil(t, signal)
}

func TestAmountDeviation_RequiresRecentActivity(t *testing.T) {
	userID := uuid.New()

	var history []domain.WithdrawalRecord
	for i := 0; i < 6; i++ {
		history = append(history, record(userID, days(10+i), withAmount(100)))
	}
	signal := (&AmountDeviationDetector{}).Detect(NewWindows(evalTime, history))

	assert.Nil(t, signal)
}
