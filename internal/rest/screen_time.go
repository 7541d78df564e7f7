package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"screenBreak/business/screentime"
	"screenBreak/domain"
	"screenBreak/pkg/logger"
	"screenBreak/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ScreenTimeHandler struct {
		validate          *validator.Validate
		screenTimeService ScreenTimeService
	}

	ScreenTimeService interface {
		Evaluate(ctx context.Context, obs domain.Observation) (domain.Evaluation, error)
		Tiers() []domain.RecommendationTier
		ReferenceSummary() domain.ReferenceSummary
	}

	EvaluateRequest struct {
		ScreenTimeMinutes *float64 `json:"screen_time_minutes" validate:"required,min=0"`
		Unlocks           *int     `json:"unlocks" validate:"required,min=0"`
		Notifications     *int     `json:"notifications" validate:"required,min=0"`
	}
)

func NewScreenTimeHandler(svc ScreenTimeService) *ScreenTimeHandler {
	return &ScreenTimeHandler{
		validate:          validator.New(),
		screenTimeService: svc,
	}
}

// POST /api/v1/screen-time/evaluate
func (h *ScreenTimeHandler) Evaluate(c echo.Context) error {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		metrics.EvaluateLatency.Observe(time.Since(start).Seconds())
		metrics.EvaluateRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	}()

	var req EvaluateRequest
	if err := c.Bind(&req); err != nil {
		status = http.StatusBadRequest
		return c.JSON(status, ResponseError{Message: err.Error(), Kind: "invalid_request"})
	}
	if err := h.validate.Struct(&req); err != nil {
		status = http.StatusBadRequest
		return c.JSON(status, ResponseError{Message: err.Error(), Kind: "invalid_request"})
	}

	obs, err := domain.NewObservation(*req.ScreenTimeMinutes, *req.Unlocks, *req.Notifications)
	if err != nil {
		status = http.StatusBadRequest
		return c.JSON(status, ResponseError{Message: err.Error(), Kind: screentime.ErrorKind(err)})
	}

	ev, err := h.screenTimeService.Evaluate(c.Request().Context(), obs)
	if err != nil {
		kind := screentime.ErrorKind(err)
		status = statusForKind(kind)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to evaluate screen time", "kind", kind, "error", err)
		}
		return c.JSON(status, ResponseError{Message: err.Error(), Kind: kind})
	}

	return c.JSON(status, fres.Response.StatusOK(ev))
}

// GET /api/v1/screen-time/tiers
func (h *ScreenTimeHandler) Tiers(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.screenTimeService.Tiers()))
}

// GET /api/v1/screen-time/reference
func (h *ScreenTimeHandler) Reference(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.screenTimeService.ReferenceSummary()))
}

func statusForKind(kind string) int {
	switch kind {
	case "invalid_observation":
		return http.StatusBadRequest
	case "shape", "empty_reference":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
