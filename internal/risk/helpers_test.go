package risk

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/banking/withdrawal-risk-service/internal/domain"
)

// evalTime is the pinned reference time all tests compute against
var evalTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type recordOpt func(*domain.WithdrawalRecord)

func withStatus(status domain.WithdrawalStatus) recordOpt {
	return func(r *domain.WithdrawalRecord) { r.Status = status }
}

func withAmount(amount float64) recordOpt {
	return func(r *domain.WithdrawalRecord) { r.Amount = amount }
}

func withBankAccount(id uuid.UUID) recordOpt {
	return func(r *domain.WithdrawalRecord) { r.BankAccountID = id }
}

func withRejectionReason(reason string) recordOpt {
	return func(r *domain.WithdrawalRecord) {
		r.Status = domain.WithdrawalStatusRejected
		r.RejectionReason = reason
	}
}

// record builds a completed withdrawal requested at evalTime minus age
func record(userID uuid.UUID, age time.Duration, opts ...recordOpt) domain.WithdrawalRecord {
	r := domain.WithdrawalRecord{
		ID:            uuid.New(),
		UserID:        userID,
		Amount:        100,
		Currency:      "USD",
		Status:        domain.WithdrawalStatusCompleted,
		BankAccountID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("primary-account")),
		RequestedAt:   evalTime.Add(-age),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// fakeRepo is an in-memory WithdrawalRepository. Histories are keyed by user;
// failUsers and failAll simulate data source outages.
type fakeRepo struct {
	histories map[uuid.UUID][]domain.WithdrawalRecord
	failUsers map[uuid.UUID]bool
	failAll   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		histories: make(map[uuid.UUID][]domain.WithdrawalRecord),
		failUsers: make(map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) add(userID uuid.UUID, records ...domain.WithdrawalRecord) {
	history := append(f.histories[userID], records...)
	// Keep the repository contract: ascending by RequestedAt.
	for i := 1; i < len(history); i++ {
		for j := i; j > 0 && history[j].RequestedAt.Before(history[j-1].RequestedAt); j-- {
			history[j], history[j-1] = history[j-1], history[j]
		}
	}
	f.histories[userID] = history
}

func (f *fakeRepo) ListWithdrawalsForUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failAll || f.failUsers[userID] {
		return nil, errors.New("store unreachable")
	}
	return f.histories[userID], nil
}

func (f *fakeRepo) ListUserIDsWithWithdrawals(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failAll {
		return nil, errors.New("store unreachable")
	}
	ids := make([]uuid.UUID, 0, len(f.histories))
	for id := range f.histories {
		ids = append(ids, id)
	}
	return ids, nil
}
