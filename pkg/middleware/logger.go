package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"nbd-crr/pkg/utils"
)

// RequestLogger пишет одну строку на запрос. Пользователь берётся из
// сессии, если её уже положил Auth.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("user", utils.ActorName(c.Request().Context())),
			}
			if v.Error != nil {
				logger.Warn("HTTP запрос", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("HTTP запрос", fields...)
			return nil
		},
	})
}
