package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/banking/withdrawal-risk-service/internal/domain"
	"github.com/banking/withdrawal-risk-service/internal/pkg/logger"
	"github.com/banking/withdrawal-risk-service/internal/risk"
)

// Breaker wraps a withdrawal repository with a circuit breaker and
// translates every failure, including an open circuit, into the engine's
// typed DataSourceUnavailable error.
type Breaker struct {
	source risk.WithdrawalRepository
	cb     *gobreaker.CircuitBreaker
	log    *logger.Logger
}

// NewBreaker creates a circuit-breaking decorator over a repository
func NewBreaker(source risk.WithdrawalRepository, log *logger.Logger) *Breaker {
	blog := log.Named("repo_breaker")
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "withdrawal-repository",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			blog.Warn("circuit breaker state changed",
				logger.StringField("breaker", name),
				logger.StringField("from", from.String()),
				logger.StringField("to", to.String()),
			)
		},
	})
	return &Breaker{source: source, cb: cb, log: blog}
}

// ListWithdrawalsForUser delegates through the breaker
func (b *Breaker) ListWithdrawalsForUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRecord, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.source.ListWithdrawalsForUser(ctx, userID)
	})
	if err != nil {
		return nil, domain.NewDataSourceUnavailable("list withdrawals", err)
	}
	return result.([]domain.WithdrawalRecord), nil
}

// ListUserIDsWithWithdrawals delegates through the breaker
func (b *Breaker) ListUserIDsWithWithdrawals(ctx context.Context) ([]uuid.UUID, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.source.ListUserIDsWithWithdrawals(ctx)
	})
	if err != nil {
		return nil, domain.NewDataSourceUnavailable("list user ids", err)
	}
	return result.([]uuid.UUID), nil
}
