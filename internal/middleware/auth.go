package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/pkg/jwtutil"
	"github.com/suteetoe/restb/pkg/logger"
	"github.com/suteetoe/restb/prometheus"
	"go.uber.org/zap"
)

// Authenticate tries strategies in order and attaches the first principal resolved
func Authenticate(strategies ...auth.Strategy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			var lastErr error
			for _, strategy := range strategies {
				principal, err := strategy.Resolve(c)
				if err == nil {
					auth.SetPrincipal(c, principal)
					log.Debug("Request authenticated",
						zap.String("strategy", string(strategy.Name())),
						zap.String("principal_id", principal.ID()))
					return next(c)
				}
				if errors.Is(err, auth.ErrNoCredentials) {
					continue
				}
				if !rejected(err) {
					log.Error("Authentication strategy errored",
						zap.String("strategy", string(strategy.Name())),
						zap.Error(err))
					return err
				}
				lastErr = err
				log.Debug("Authentication strategy failed",
					zap.String("strategy", string(strategy.Name())),
					zap.Error(err))
			}

			if lastErr != nil {
				prometheus.RecordAuthError(authErrorType(lastErr))
			} else {
				prometheus.RecordAuthError("missing_credentials")
			}
			return apperror.Unauthorized("Not authorized").Wrap(lastErr)
		}
	}
}

// rejected reports whether err is a verdict on the credential rather than an outage
func rejected(err error) bool {
	return errors.Is(err, jwtutil.ErrInvalidToken) ||
		errors.Is(err, jwtutil.ErrWrongAudience) ||
		errors.Is(err, auth.ErrRevoked) ||
		errors.Is(err, auth.ErrPrincipalGone)
}

func authErrorType(err error) string {
	switch {
	case errors.Is(err, jwtutil.ErrWrongAudience):
		return "wrong_audience"
	case errors.Is(err, jwtutil.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, auth.ErrRevoked):
		return "revoked_token"
	case errors.Is(err, auth.ErrPrincipalGone):
		return "principal_not_found"
	}
	return "internal"
}
