package api

import (
	"errors"
	"time"

	models "TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/engine"
	"TradePulse/internal/usecase"
	xhttp "TradePulse/pkg/http"
	xlogger "TradePulse/pkg/logger"
	"TradePulse/pkg/util"

	"github.com/labstack/echo/v4"
)

const maxQuerySpan = 30 * 24 * time.Hour

// EvaluationsHandler exposes the scoring engine over HTTP: synchronous
// evaluation of posted snapshots, stored-signal queries, and the tier ladder.
type EvaluationsHandler struct {
	logger    *xlogger.Logger
	evaluator *usecase.SignalEvaluator
	store     domrepo.SignalStore
}

func NewEvaluationsHandler(logger *xlogger.Logger, evaluator *usecase.SignalEvaluator, store domrepo.SignalStore) *EvaluationsHandler {
	return &EvaluationsHandler{logger: logger, evaluator: evaluator, store: store}
}

func (h *EvaluationsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/evaluate", h.Evaluate)
	g.GET("/signals", h.Signals)
	g.GET("/tiers", h.Tiers)
	e.GET("/health", h.Health)
}

// Evaluate scores a posted snapshot synchronously against one or all tiers.
func (h *EvaluationsHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	snap := req.Snapshot()
	snap.Timestamp = time.Now().UTC()

	ctx := c.Request().Context()
	var (
		envs []*models.SignalEnvelope
		err  error
	)
	if req.Tier != "" {
		var env *models.SignalEnvelope
		env, err = h.evaluator.EvaluateTier(ctx, req.Tier, snap)
		if env != nil {
			envs = []*models.SignalEnvelope{env}
		}
	} else {
		envs, err = h.evaluator.EvaluateAll(ctx, snap)
	}
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrUnknownTier):
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown tier %q", req.Tier))
		case errors.Is(err, engine.ErrInvalidRiskInput):
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
		default:
			h.logger.Error("evaluate usecase error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.SuccessResponse(c, envs)
}

// Signals returns stored evaluation results for a symbol and time range.
func (h *EvaluationsHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := util.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := util.ParseTimeDefault(req.To, now)
	from, to = util.ClampRange(from, to, maxQuerySpan)

	envs, err := h.store.Query(c.Request().Context(), req.Symbol, from, to, req.Limit, req.EmittedOnly)
	if err != nil {
		h.logger.Error("signals query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, envs, int64(len(envs)))
}

// tierView is the public shape of one tier ladder rung.
type tierView struct {
	ID                string   `json:"id"`
	Criteria          []string `json:"criteria"`
	RequiredPassCount int      `json:"required_pass_count"`
	MinConfidence     float64  `json:"min_confidence"`
	Weighted          bool     `json:"weighted"`
}

// Tiers lists the configured tier ladder.
func (h *EvaluationsHandler) Tiers(c echo.Context) error {
	tiers := h.evaluator.Tiers()
	out := make([]tierView, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, tierView{
			ID:                t.ID,
			Criteria:          t.Criteria,
			RequiredPassCount: t.RequiredPassCount,
			MinConfidence:     t.MinConfidence,
			Weighted:          t.Weighted,
		})
	}
	return xhttp.SuccessResponse(c, out)
}

// Health reports storage reachability.
func (h *EvaluationsHandler) Health(c echo.Context) error {
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("storage: %v", err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
