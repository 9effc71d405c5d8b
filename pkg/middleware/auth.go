package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nbd-crr/internal/authz"
	"nbd-crr/internal/entities"
	"nbd-crr/pkg/contextkeys"
	apperrors "nbd-crr/pkg/errors"
	"nbd-crr/pkg/service"
	"nbd-crr/pkg/utils"
)

// SessionHydrator поднимает сессию по её id и перечитывает права.
type SessionHydrator interface {
	Hydrate(ctx context.Context, sessionID string) (*entities.Session, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	sessions   SessionHydrator
	gate       *authz.Gatekeeper
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, sessions SessionHydrator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		sessions:   sessions,
		gate:       authz.NewGatekeeper(),
		logger:     logger,
	}
}

// bearerToken берёт токен из заголовка Authorization. Для /api/ws браузер
// заголовок передать не может, там токен приходит в ?token=.
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		if token := c.QueryParam("token"); token != "" && c.IsWebSocket() {
			return token, nil
		}
		return "", apperrors.ErrEmptyAuthHeader
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return strings.TrimSpace(token), nil
}

// Auth: токен -> сессия из кеша -> свежие права из справочника.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := c.Request().Context()
		session, err := m.sessions.Hydrate(ctx, claims.SessionID)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx = context.WithValue(ctx, contextkeys.SessionIDKey, session.ID)
		c.SetRequest(c.Request().WithContext(utils.WithSession(ctx, session)))

		m.logger.Debug("AuthMiddleware: сессия восстановлена",
			zap.String("user", session.UserName), zap.String("role", session.Access.Role))
		return next(c)
	}
}

// Require пускает дальше, только если у сессии есть флаг страницы.
func (m *AuthMiddleware) Require(flag string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := utils.GetSessionFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if !m.gate.Can(session.Access, flag) {
				m.logger.Warn("Доступ к странице запрещён",
					zap.String("user", session.UserName), zap.String("flag", flag))
				return utils.ErrorResponse(c, apperrors.ErrPermissionDenied, m.logger)
			}
			return next(c)
		}
	}
}
