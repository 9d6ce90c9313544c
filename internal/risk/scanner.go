package risk

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// GetHighRiskUsers scans every user with withdrawal history and returns the
// highest scoring profiles at or above minScore, descending by score,
// truncated to limit.
func (e *Engine) GetHighRiskUsers(ctx context.Context, minScore, limit int, now time.Time) ([]domain.HighRiskUserSummary, error) {
	if minScore < 0 || minScore > 100 {
		return nil, domain.NewInvalidParameter("minScore", fmt.Sprintf("must be in [0,100], got %d", minScore))
	}
	if limit <= 0 {
		return nil, domain.NewInvalidParameter("limit", fmt.Sprintf("must be positive, got %d", limit))
	}
	if now.IsZero() {
		return nil, domain.NewInvalidParameter("now", "reference time must be set")
	}

	ctx, span := e.tracer.Start(ctx, "risk.GetHighRiskUsers")
	defer span.End()

	profiles, err := e.scanProfiles(ctx, "high_risk_users", now)
	if err != nil {
		return nil, err
	}

	matched := profiles[:0]
	for _, p := range profiles {
		if p.OverallScore >= minScore {
			matched = append(matched, p)
		}
	}

	// Score descending; ties go to the most recently active user, then
	// user ID so the ordering is fully deterministic.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].OverallScore != matched[j].OverallScore {
			return matched[i].OverallScore > matched[j].OverallScore
		}
		if !matched[i].LastWithdrawalAt.Equal(matched[j].LastWithdrawalAt) {
			return matched[i].LastWithdrawalAt.After(matched[j].LastWithdrawalAt)
		}
		return matched[i].UserID.String() < matched[j].UserID.String()
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}

	summaries := make([]domain.HighRiskUserSummary, 0, len(matched))
	for _, p := range matched {
		if p.IsHighRisk() {
			e.log.HighRiskUserFound(p.UserID.String(), p.OverallScore)
		}
		summaries = append(summaries, *p.ToSummary())
	}
	return summaries, nil
}

// GetRiskSignalsSummary scans every user with withdrawal history and reduces
// the profiles into a platform-wide risk distribution.
func (e *Engine) GetRiskSignalsSummary(ctx context.Context, now time.Time) (*domain.PlatformRiskSummary, error) {
	if now.IsZero() {
		return nil, domain.NewInvalidParameter("now", "reference time must be set")
	}

	ctx, span := e.tracer.Start(ctx, "risk.GetRiskSignalsSummary")
	defer span.End()

	profiles, err := e.scanProfiles(ctx, "signals_summary", now)
	if err != nil {
		return nil, err
	}

	summary := &domain.PlatformRiskSummary{
		TotalUsersAnalyzed: len(profiles),
		RiskDistribution: map[domain.RiskLevel]int{
			domain.RiskLevelLow:    0,
			domain.RiskLevelMedium: 0,
			domain.RiskLevelHigh:   0,
		},
		TopSignals:  make(map[domain.SignalType]domain.SignalStat),
		EvaluatedAt: now,
	}

	severitySums := make(map[domain.SignalType]int)
	for _, p := range profiles {
		summary.RiskDistribution[p.RiskLevel]++
		if p.IsHighRisk() {
			summary.HighRiskUserCount++
		}
		for _, s := range p.ActiveSignals {
			stat := summary.TopSignals[s.Type]
			stat.Occurrences++
			summary.TopSignals[s.Type] = stat
			severitySums[s.Type] += s.Severity.Weight()
		}
	}

	for signalType, stat := range summary.TopSignals {
		mean := float64(severitySums[signalType]) / float64(stat.Occurrences)
		stat.AverageSeverity = domain.SeverityFromWeight(int(math.Round(mean)))
		summary.TopSignals[signalType] = stat
	}

	return summary, nil
}

// scanProfiles computes a profile for every user with withdrawal history
// using a bounded worker pool. Per-user repository failures are logged and
// the user is excluded from the results; cancellation aborts the whole scan.
func (e *Engine) scanProfiles(ctx context.Context, operation string, now time.Time) ([]*domain.UserRiskProfile, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	userIDs, err := e.repo.ListUserIDsWithWithdrawals(ctx)
	if err != nil {
		if domain.IsDataSourceUnavailable(err) {
			return nil, err
		}
		return nil, domain.NewDataSourceUnavailable("list user ids", err)
	}

	e.log.ScanStarted(operation, len(userIDs))

	concurrency := e.cfg.ScanConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		mu       sync.Mutex
		profiles = make([]*domain.UserRiskProfile, 0, len(userIDs))
		skipped  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			profile, err := e.ComputeUserRiskProfile(gctx, userID, now)
			if err != nil {
				// Cancellation is terminal; a per-user data source
				// failure only excludes that user.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.log.ScanUserSkipped(userID.String(), err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			profiles = append(profiles, profile)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.log.ScanCompleted(operation, len(profiles), skipped, time.Since(start).Milliseconds())
	return profiles, nil
}
