package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/pkg/logger"
	"go.uber.org/zap"
)

// ResponseContract logs successful JSON responses that break their endpoint's contract
func ResponseContract(registry *schema.Registry) echo.MiddlewareFunc {
	return echomiddleware.BodyDumpWithConfig(echomiddleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == "OPTIONS"
		},
		Handler: func(c echo.Context, _ []byte, body []byte) {
			name := schema.Endpoint(c)
			status := c.Response().Status
			if name == "" || status < 200 || status >= 300 || len(body) == 0 {
				return
			}

			violations, err := registry.ValidateResponse(name, body)
			if err != nil {
				logger.FromEcho(c).Warn("Response contract check failed", zap.String("endpoint", name), zap.Error(err))
				return
			}
			if len(violations) > 0 {
				logger.FromEcho(c).Warn("Response violates contract",
					zap.String("endpoint", name),
					zap.Strings("violations", violations))
			}
		},
	})
}
