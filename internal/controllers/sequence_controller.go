package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nbd-crr/internal/dto"
	"nbd-crr/internal/services"
	"nbd-crr/pkg/utils"
)

type SequenceController struct {
	service services.SequenceServiceInterface
	logger  *zap.Logger
}

func NewSequenceController(service services.SequenceServiceInterface, logger *zap.Logger) *SequenceController {
	return &SequenceController{service: service, logger: logger}
}

// Preview показывает следующий номер, ничего не резервируя.
func (c *SequenceController) Preview(kind string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		value, err := c.service.Preview(ctx.Request().Context(), kind)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, dto.SequencePreviewDTO{Kind: kind, Value: value}, "OK", http.StatusOK)
	}
}
