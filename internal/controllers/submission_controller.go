package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nbd-crr/internal/services"
	apperrors "nbd-crr/pkg/errors"
	"nbd-crr/pkg/utils"
)

type SubmissionController struct {
	service services.SubmissionServiceInterface
	logger  *zap.Logger
}

func NewSubmissionController(service services.SubmissionServiceInterface, logger *zap.Logger) *SubmissionController {
	return &SubmissionController{service: service, logger: logger}
}

// GetRecent - журнал последних отправок, ?form= и ?limit= необязательны.
func (c *SubmissionController) GetRecent(ctx echo.Context) error {
	var limit uint64
	if raw := ctx.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
		}
		limit = n
	}

	items, err := c.service.Recent(ctx.Request().Context(), ctx.QueryParam("form"), limit)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "OK", http.StatusOK)
}
