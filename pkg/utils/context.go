package utils

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"nbd-crr/internal/entities"
	"nbd-crr/pkg/contextkeys"
	apperrors "nbd-crr/pkg/errors"
)

func ContextWithTimeout(ctx echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request().Context(), timeout)
}

func WithSession(ctx context.Context, session *entities.Session) context.Context {
	return context.WithValue(ctx, contextkeys.SessionKey, session)
}

func GetSessionFromCtx(ctx context.Context) (*entities.Session, error) {
	session, ok := ctx.Value(contextkeys.SessionKey).(*entities.Session)
	if !ok || session == nil {
		return nil, apperrors.ErrSessionNotFoundInContext
	}
	return session, nil
}

// ActorName - имя пользователя для журналов; "system" вне запроса.
func ActorName(ctx context.Context) string {
	if s, err := GetSessionFromCtx(ctx); err == nil {
		return s.UserName
	}
	return "system"
}
