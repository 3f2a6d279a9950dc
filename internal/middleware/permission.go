package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/model"
)

// PermissionDenied is the message of every role rejection
const PermissionDenied = "You do not have permission to perform this action"

// RequireRole lets through admins holding one of roles
func RequireRole(roles ...model.AdminRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin, _, err := auth.AdminFrom(c)
			if err != nil || !admin.HasRole(roles...) {
				return apperror.Forbidden(PermissionDenied)
			}
			return next(c)
		}
	}
}
