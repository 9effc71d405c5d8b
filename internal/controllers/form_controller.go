package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nbd-crr/internal/dto"
	"nbd-crr/internal/services"
	apperrors "nbd-crr/pkg/errors"
	"nbd-crr/pkg/utils"
)

// FormController принимает отправки форм. Проверку полей делает сервис,
// чтобы CLI и HTTP шли одной дорогой.
type FormController struct {
	service services.SubmissionServiceInterface
	logger  *zap.Logger
}

func NewFormController(service services.SubmissionServiceInterface, logger *zap.Logger) *FormController {
	return &FormController{service: service, logger: logger}
}

func submitForm[T any](ctx echo.Context, logger *zap.Logger, submit func(context.Context, T) (*dto.SubmitResultDTO, error)) error {
	var payload T
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), logger)
	}

	res, err := submit(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	if res.Duplicate {
		return utils.SuccessResponse(ctx, res, "Форма уже была отправлена", http.StatusOK)
	}
	return utils.SuccessResponse(ctx, res, "Форма отправлена", http.StatusCreated)
}

func (c *FormController) NewEnquiry(ctx echo.Context) error {
	return submitForm(ctx, c.logger, c.service.SubmitNewEnquiry)
}

func (c *FormController) OnCallFollowup(ctx echo.Context) error {
	return submitForm(ctx, c.logger, c.service.SubmitOnCallFollowup)
}

func (c *FormController) UpdateQuotation(ctx echo.Context) error {
	return submitForm(ctx, c.logger, c.service.SubmitUpdateQuotation)
}

func (c *FormController) QuotationValidation(ctx echo.Context) error {
	return submitForm(ctx, c.logger, c.service.SubmitQuotationValidation)
}

func (c *FormController) ScreenshotUpdate(ctx echo.Context) error {
	return submitForm(ctx, c.logger, c.service.SubmitScreenshotUpdate)
}

func (c *FormController) FollowupSteps(ctx echo.Context) error {
	return submitForm(ctx, c.logger, c.service.SubmitFollowupSteps)
}

func (c *FormController) OrderStatus(ctx echo.Context) error {
	return submitForm(ctx, c.logger, c.service.SubmitOrderStatus)
}

func (c *FormController) MakeQuotation(ctx echo.Context) error {
	return submitForm(ctx, c.logger, c.service.SubmitMakeQuotation)
}
