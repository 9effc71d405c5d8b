package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nbd-crr/internal/authz"
	"nbd-crr/internal/dto"
	"nbd-crr/internal/services"
	apperrors "nbd-crr/pkg/errors"
	"nbd-crr/pkg/service"
	"nbd-crr/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	jwtService  service.JWTService
	gate        *authz.Gatekeeper
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtService service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		jwtService:  jwtService,
		gate:        authz.NewGatekeeper(),
		logger:      logger,
	}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	session, err := c.authService.Login(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	token, err := c.jwtService.GenerateToken(session.ID, session.UserName)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res := dto.AuthResponseDTO{
		AccessToken: token,
		ExpiresIn:   int64(c.jwtService.GetAccessTokenTTL().Seconds()),
		User:        dto.NewSessionUserDTO(session.UserName, session.Access, c.gate.Visible(session.Access)),
	}
	return utils.SuccessResponse(ctx, res, "Вход выполнен", http.StatusOK)
}

func (c *AuthController) Logout(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.authService.Logout(ctx.Request().Context(), session.ID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Выход выполнен", http.StatusOK)
}

// Me - текущий пользователь с правами, перечитанными на этом запросе.
func (c *AuthController) Me(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	user := dto.NewSessionUserDTO(session.UserName, session.Access, c.gate.Visible(session.Access))
	return utils.SuccessResponse(ctx, user, "OK", http.StatusOK)
}
