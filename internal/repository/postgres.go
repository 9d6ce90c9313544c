package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/banking/withdrawal-risk-service/internal/domain"
	"github.com/banking/withdrawal-risk-service/internal/pkg/logger"
)

// Postgres reads withdrawal records from the store owned by the withdrawal
// workflow service. All queries are read-only; this service never writes.
type Postgres struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewPostgres creates a Postgres-backed withdrawal repository
func NewPostgres(pool *pgxpool.Pool, log *logger.Logger) *Postgres {
	return &Postgres{
		pool: pool,
		log:  log.Named("withdrawal_repo"),
	}
}

const listWithdrawalsQuery = `
SELECT id, user_id, amount, currency, status, bank_account_id, requested_at,
       COALESCE(rejection_reason, '')
FROM withdrawals
WHERE user_id = $1
ORDER BY requested_at ASC`

// ListWithdrawalsForUser returns the user's full withdrawal history ordered
// ascending by requested_at.
func (r *Postgres) ListWithdrawalsForUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRecord, error) {
	rows, err := r.pool.Query(ctx, listWithdrawalsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query withdrawals for user %s: %w", userID, err)
	}
	defer rows.Close()

	var records []domain.WithdrawalRecord
	for rows.Next() {
		var rec domain.WithdrawalRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Amount,
			&rec.Currency,
			&rec.Status,
			&rec.BankAccountID,
			&rec.RequestedAt,
			&rec.RejectionReason,
		); err != nil {
			return nil, fmt.Errorf("scan withdrawal row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate withdrawal rows: %w", err)
	}

	return records, nil
}

const listUserIDsQuery = `SELECT DISTINCT user_id FROM withdrawals`

// ListUserIDsWithWithdrawals returns every user with at least one record
func (r *Postgres) ListUserIDsWithWithdrawals(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, listUserIDsQuery)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	defer rows.Close()

	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user id rows: %w", err)
	}

	return userIDs, nil
}
