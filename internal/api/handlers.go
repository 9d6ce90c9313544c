package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/banking/withdrawal-risk-service/internal/config"
	"github.com/banking/withdrawal-risk-service/internal/domain"
	"github.com/banking/withdrawal-risk-service/internal/risk"
)

// Handler exposes the risk engine over HTTP. It is a thin read-only surface:
// all logic lives in the engine.
type Handler struct {
	engine *risk.Engine
	cfg    *config.RiskConfig
}

// NewHandler creates an API handler over the risk engine
func NewHandler(engine *risk.Engine, cfg *config.RiskConfig) *Handler {
	return &Handler{engine: engine, cfg: cfg}
}

// Register mounts the risk routes on an Echo instance
func (h *Handler) Register(e *echo.Echo) {
	g := e.Group("/api/v1/risk")
	g.GET("/users/:user_id/profile", h.getUserRiskProfile)
	g.GET("/users/high-risk", h.getHighRiskUsers)
	g.GET("/signals/summary", h.getRiskSignalsSummary)
}

func (h *Handler) getUserRiskProfile(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	profile, err := h.engine.ComputeUserRiskProfile(c.Request().Context(), userID, time.Now().UTC())
	if err != nil {
		return mapEngineError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) getHighRiskUsers(c echo.Context) error {
	minScore, err := intQueryParam(c, "min_score", h.cfg.DefaultMinScore)
	if err != nil {
		return err
	}
	limit, err := intQueryParam(c, "limit", h.cfg.DefaultLimit)
	if err != nil {
		return err
	}

	summaries, err := h.engine.GetHighRiskUsers(c.Request().Context(), minScore, limit, time.Now().UTC())
	if err != nil {
		return mapEngineError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"users": summaries,
		"count": len(summaries),
	})
}

func (h *Handler) getRiskSignalsSummary(c echo.Context) error {
	summary, err := h.engine.GetRiskSignalsSummary(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return mapEngineError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func intQueryParam(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "query parameter "+name+" must be an integer")
	}
	return value, nil
}

// mapEngineError translates typed engine errors onto HTTP status codes
func mapEngineError(err error) error {
	switch {
	case domain.IsInvalidParameter(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case domain.IsDataSourceUnavailable(err):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "withdrawal data source unavailable")
	default:
		return err
	}
}
