package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/schema"
)

// Validator gates handlers behind their request contracts
type Validator struct {
	registry *schema.Registry
	binder   *echo.DefaultBinder
	now      func() time.Time
}

func NewValidator(registry *schema.Registry, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{
		registry: registry,
		binder:   &echo.DefaultBinder{},
		now:      now,
	}
}

// For validates requests of the named endpoint before calling the handler
func (v *Validator) For(name string) echo.MiddlewareFunc {
	entry := v.registry.MustGet(name)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			schema.SetEndpoint(c, name)

			req := entry.NewRequest()
			if req == nil {
				return next(c)
			}

			if p, ok := req.(schema.Presetter); ok {
				p.Preset()
			}
			if violations := v.bind(c, req); len(violations) > 0 {
				return apperror.Validation(violations)
			}
			if d, ok := req.(schema.Defaulter); ok {
				d.Defaults(v.now())
			}
			if n, ok := req.(schema.Normalizer); ok {
				n.Normalize()
			}
			if err := v.registry.Validator().Struct(req); err != nil {
				return apperror.Validation(schema.Messages(req, err)).Wrap(err)
			}

			schema.SetBound(c, req)
			return next(c)
		}
	}
}

// bind fills req from every request part; later parts win so path params
// cannot be overridden by a body field of the same name
func (v *Validator) bind(c echo.Context, req interface{}) []string {
	parts := []struct {
		name string
		bind func(echo.Context, interface{}) error
	}{
		{"body", v.binder.BindBody},
		{"query", v.binder.BindQueryParams},
		{"headers", v.binder.BindHeaders},
		{"params", v.binder.BindPathParams},
	}

	var violations []string
	for _, part := range parts {
		if err := part.bind(c, req); err != nil {
			violations = append(violations, fmt.Sprintf("%s %s", part.name, bindMessage(err)))
		}
	}
	return violations
}

func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			return "is invalid: " + he.Internal.Error()
		}
		return fmt.Sprintf("is invalid: %v", he.Message)
	}
	return "is invalid: " + err.Error()
}
