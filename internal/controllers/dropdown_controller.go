package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nbd-crr/internal/services"
	"nbd-crr/pkg/utils"
)

type DropdownController struct {
	service services.DropdownServiceInterface
	logger  *zap.Logger
}

func NewDropdownController(service services.DropdownServiceInterface, logger *zap.Logger) *DropdownController {
	return &DropdownController{service: service, logger: logger}
}

func (c *DropdownController) GetOptions(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.service.Options(ctx.Request().Context()), "OK", http.StatusOK)
}
