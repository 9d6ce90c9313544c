package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banking/withdrawal-risk-service/internal/config"
	"github.com/banking/withdrawal-risk-service/internal/domain"
	"github.com/banking/withdrawal-risk-service/internal/pkg/logger"
	"github.com/banking/withdrawal-risk-service/internal/risk"
)

type memRepo struct {
	histories map[uuid.UUID][]domain.WithdrawalRecord
}

func (m *memRepo) ListWithdrawalsForUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRecord, error) {
	return m.histories[userID], nil
}

func (m *memRepo) ListUserIDsWithWithdrawals(ctx context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(m.histories))
	for id := range m.histories {
		ids = append(ids, id)
	}
	return ids, nil
}

func newTestServer(repo risk.WithdrawalRepository) *echo.Echo {
	cfg := &config.RiskConfig{ScanConcurrency: 2, DefaultMinScore: 70, DefaultLimit: 50}
	engine := risk.NewEngine(repo, risk.DefaultDetectors(), cfg, logger.NewNop())

	e := echo.New()
	NewHandler(engine, cfg).Register(e)
	return e
}

func TestGetUserRiskProfile_EmptyHistoryReturnsLowProfile(t *testing.T) {
	e := newTestServer(&memRepo{histories: map[uuid.UUID][]domain.WithdrawalRecord{}})

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/users/"+userID.String()+"/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var profile domain.UserRiskProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, domain.RiskLevelLow, profile.RiskLevel)
	assert.Equal(t, 0, profile.OverallScore)
}

func TestGetUserRiskProfile_InvalidUUID(t *testing.T) {
	e := newTestServer(&memRepo{histories: map[uuid.UUID][]domain.WithdrawalRecord{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/users/not-a-uuid/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHighRiskUsers_BadParamsRejected(t *testing.T) {
	e := newTestServer(&memRepo{histories: map[uuid.UUID][]domain.WithdrawalRecord{}})

	for _, query := range []string{
		"min_score=101",
		"min_score=-1",
		"limit=0",
		"limit=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/users/high-risk?"+query, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "query=%s", query)
	}
}

func TestGetHighRiskUsers_DefaultsApplied(t *testing.T) {
	userID := uuid.New()
	history := []domain.WithdrawalRecord{{
		ID:            uuid.New(),
		UserID:        userID,
		Amount:        100,
		Currency:      "USD",
		Status:        domain.WithdrawalStatusCompleted,
		BankAccountID: uuid.New(),
		RequestedAt:   time.Now().UTC().Add(-48 * time.Hour),
	}}
	e := newTestServer(&memRepo{histories: map[uuid.UUID][]domain.WithdrawalRecord{userID: history}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/users/high-risk", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Users []domain.HighRiskUserSummary `json:"users"`
		Count int                          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// One quiet user, default min score 70: nobody qualifies.
	assert.Zero(t, body.Count)
}

func TestGetRiskSignalsSummary_OK(t *testing.T) {
	userID := uuid.New()
	history := []domain.WithdrawalRecord{{
		ID:            uuid.New(),
		UserID:        userID,
		Amount:        100,
		Currency:      "USD",
		Status:        domain.WithdrawalStatusCompleted,
		BankAccountID: uuid.New(),
		RequestedAt:   time.Now().UTC().Add(-24 * time.Hour),
	}}
	e := newTestServer(&memRepo{histories: map[uuid.UUID][]domain.WithdrawalRecord{userID: history}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/signals/summary", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.PlatformRiskSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalUsersAnalyzed)
	assert.Equal(t, 1, summary.RiskDistribution[domain.RiskLevelLow])
	assert.Zero(t, summary.HighRiskUserCount)
}
