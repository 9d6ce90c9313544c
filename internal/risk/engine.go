package risk

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/banking/withdrawal-risk-service/internal/config"
	"github.com/banking/withdrawal-risk-service/internal/domain"
	"github.com/banking/withdrawal-risk-service/internal/pkg/logger"
)

// WithdrawalRepository supplies withdrawal history. It is the only external
// collaborator of the engine; everything past this boundary is pure
// computation.
type WithdrawalRepository interface {
	// ListWithdrawalsForUser returns the user's full history ascending by
	// RequestedAt; an empty slice if the user has none.
	ListWithdrawalsForUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRecord, error)

	// ListUserIDsWithWithdrawals returns every user with at least one
	// withdrawal record.
	ListUserIDsWithWithdrawals(ctx context.Context) ([]uuid.UUID, error)
}

// Engine evaluates withdrawal histories into risk profiles. It is read-only
// and stateless: identical history and reference time always produce an
// identical profile.
type Engine struct {
	repo      WithdrawalRepository
	detectors []Detector

	cfg    *config.RiskConfig
	log    *logger.Logger
	tracer trace.Tracer
}

// NewEngine creates a risk engine over a withdrawal repository
func NewEngine(repo WithdrawalRepository, detectors []Detector, cfg *config.RiskConfig, log *logger.Logger) *Engine {
	return &Engine{
		repo:      repo,
		detectors: detectors,
		cfg:       cfg,
		log:       log.Named("risk_engine"),
		tracer:    otel.Tracer("withdrawal-risk-service/risk"),
	}
}

// ComputeUserRiskProfile evaluates one user's withdrawal history at the given
// reference time. A user with no history gets a LOW profile with score 0 and
// no signals; that is a valid result, not an error.
func (e *Engine) ComputeUserRiskProfile(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.UserRiskProfile, error) {
	if now.IsZero() {
		return nil, domain.NewInvalidParameter("now", "reference time must be set")
	}

	ctx, span := e.tracer.Start(ctx, "risk.ComputeUserRiskProfile",
		trace.WithAttributes(attribute.String("user_id", userID.String())))
	defer span.End()

	start := time.Now()

	history, err := e.repo.ListWithdrawalsForUser(ctx, userID)
	if err != nil {
		if domain.IsDataSourceUnavailable(err) {
			return nil, err
		}
		return nil, domain.NewDataSourceUnavailable("list withdrawals", err)
	}

	profile := e.evaluate(userID, now, history)

	e.log.ProfileComputed(
		userID.String(),
		string(profile.RiskLevel),
		profile.OverallScore,
		len(profile.ActiveSignals),
		time.Since(start).Milliseconds(),
	)
	span.SetAttributes(
		attribute.Int("overall_score", profile.OverallScore),
		attribute.String("risk_level", string(profile.RiskLevel)),
	)

	return profile, nil
}

// evaluate is the pure core: history in, profile out
func (e *Engine) evaluate(userID uuid.UUID, now time.Time, history []domain.WithdrawalRecord) *domain.UserRiskProfile {
	profile := &domain.UserRiskProfile{
		UserID:        userID,
		RiskLevel:     domain.RiskLevelLow,
		ActiveSignals: []domain.RiskSignal{},
		EvaluatedAt:   now,
	}
	if len(history) == 0 {
		return profile
	}

	windows := NewWindows(now, history)

	for _, d := range e.detectors {
		if signal := d.Detect(windows); signal != nil {
			profile.ActiveSignals = append(profile.ActiveSignals, *signal)
		}
	}
	SortSignalsByScore(profile.ActiveSignals)

	profile.OverallScore = AggregateScore(profile.ActiveSignals)
	profile.RiskLevel = domain.RiskLevelForScore(profile.OverallScore)
	profile.EvaluationContext = buildEvaluationContext(windows)
	profile.LastWithdrawalAt = history[len(history)-1].RequestedAt

	return profile
}

func buildEvaluationContext(w Windows) domain.EvaluationContext {
	ec := domain.EvaluationContext{
		TotalWithdrawals: len(w.All),
		Last7Days:        len(w.Last7Days),
		Last30Days:       len(w.Last30Days),
	}

	completed, failed := 0, 0
	for i := range w.All {
		if w.All[i].IsCompleted() {
			completed++
		}
		if w.All[i].IsFailure() {
			failed++
		}
	}
	total := float64(len(w.All))
	ec.SuccessRate = float64(completed) / total
	ec.FailureRate = float64(failed) / total

	return ec
}
