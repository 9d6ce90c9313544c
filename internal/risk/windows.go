package risk

import (
	"time"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

const (
	recentWindow  = 7 * 24 * time.Hour
	monthlyWindow = 30 * 24 * time.Hour
)

// Windows holds a user's withdrawal history sliced into the time windows the
// detectors compare. All slices share the backing records; nothing is copied
// or mutated.
type Windows struct {
	Now time.Time

	// All is the complete history ordered ascending by RequestedAt.
	All []domain.WithdrawalRecord

	// Last7Days and Last30Days contain records at or after now minus the
	// window. Historical contains records older than 7 days.
	Last7Days  []domain.WithdrawalRecord
	Last30Days []domain.WithdrawalRecord
	Historical []domain.WithdrawalRecord
}

// NewWindows derives the detector windows from a full history and an explicit
// reference time.
func NewWindows(now time.Time, history []domain.WithdrawalRecord) Windows {
	w := Windows{Now: now, All: history}

	recentCutoff := now.Add(-recentWindow)
	monthlyCutoff := now.Add(-monthlyWindow)

	for i := range history {
		at := history[i].RequestedAt
		if !at.Before(recentCutoff) {
			w.Last7Days = append(w.Last7Days, history[i])
		} else {
			w.Historical = append(w.Historical, history[i])
		}
		if !at.Before(monthlyCutoff) {
			w.Last30Days = append(w.Last30Days, history[i])
		}
	}

	return w
}

// HistoricalWeeklyRate returns the average withdrawals per week across the
// historical window. The span is measured from the oldest historical record
// to the start of the recent window and floored at one week so a one-day
// burst of old records does not read as an extreme weekly rate.
func (w Windows) HistoricalWeeklyRate() float64 {
	if len(w.Historical) == 0 {
		return 0
	}
	span := w.Now.Add(-recentWindow).Sub(w.Historical[0].RequestedAt)
	if span < recentWindow {
		span = recentWindow
	}
	weeks := span.Hours() / (7 * 24)
	return float64(len(w.Historical)) / weeks
}

// HistoricalAverageAmount returns the mean amount of the historical window
func (w Windows) HistoricalAverageAmount() float64 {
	return averageAmount(w.Historical)
}

// RecentAverageAmount returns the mean amount of the last-7-day window
func (w Windows) RecentAverageAmount() float64 {
	return averageAmount(w.Last7Days)
}

func averageAmount(records []domain.WithdrawalRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var total float64
	for i := range records {
		total += records[i].Amount
	}
	return total / float64(len(records))
}
