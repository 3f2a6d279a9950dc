package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/pkg/config"
	"github.com/suteetoe/restb/pkg/jwtutil"
	"go.uber.org/zap"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(zap.NewNop())
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestValidator_BindsDefaultsAndStores(t *testing.T) {
	registry, err := schema.NewRegistry()
	require.NoError(t, err)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	v := NewValidator(registry, func() time.Time { return now })

	var got *schema.ListRestaurantsRequest
	e := newEcho()
	e.GET("/restaurant", func(c echo.Context) error {
		req, err := schema.Bound[schema.ListRestaurantsRequest](c)
		if err != nil {
			return err
		}
		got = req
		return c.NoContent(http.StatusOK)
	}, v.For(schema.B2CListRestaurant))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/restaurant?search=+Paris+&page=2&categories=BBQ&categories=Bar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Paris", got.Search)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 20, got.Limit)
	assert.Equal(t, 20, got.Radius)
	assert.Equal(t, []string{"BBQ", "Bar"}, got.Categories)
	assert.True(t, got.Date.Equal(now))
}

func TestValidator_RejectsWithEveryViolation(t *testing.T) {
	registry, err := schema.NewRegistry()
	require.NoError(t, err)
	v := NewValidator(registry, nil)

	reached := false
	e := newEcho()
	e.POST("/register", func(c echo.Context) error {
		reached = true
		return nil
	}, v.For(schema.B2CRegister))

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"bad","password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "body.firstName is required")
	assert.Contains(t, body, "body.lastName is required")
	assert.Contains(t, body, "body.email must be a valid email address")
	assert.Contains(t, body, "body.password length must be at least 3 characters long")
}

func TestValidator_ExplicitZerosAreValidated(t *testing.T) {
	registry, err := schema.NewRegistry()
	require.NoError(t, err)
	v := NewValidator(registry, nil)

	e := newEcho()
	e.GET("/restaurant", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, v.For(schema.B2CListRestaurant))

	for target, message := range map[string]string{
		"/restaurant?page=0":   "query.page must be greater than or equal to 1",
		"/restaurant?limit=0":  "query.limit must be greater than or equal to 1",
		"/restaurant?radius=0": "query.radius must be greater than or equal to 1",
	} {
		rec := serve(e, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), message, target)
	}

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/restaurant", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidator_CoercionFailure(t *testing.T) {
	registry, err := schema.NewRegistry()
	require.NoError(t, err)
	v := NewValidator(registry, nil)

	e := newEcho()
	e.GET("/restaurant", func(c echo.Context) error { return nil }, v.For(schema.B2CListRestaurant))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/restaurant?radius=far", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query is invalid")
}

func TestValidator_PathParamWinsOverBody(t *testing.T) {
	registry, err := schema.NewRegistry()
	require.NoError(t, err)
	v := NewValidator(registry, nil)

	id := "7f1c1c8e-8d7e-4d8b-9a53-5f4a2b0c6c11"
	var got string
	e := newEcho()
	e.PATCH("/booking/:bookingID", func(c echo.Context) error {
		req, err := schema.Bound[schema.UpdateBookingRequest](c)
		if err != nil {
			return err
		}
		got = req.BookingID
		return nil
	}, v.For(schema.B2BUpdateBooking))

	req := httptest.NewRequest(http.MethodPatch, "/booking/"+id,
		strings.NewReader(`{"bookingID":"00000000-0000-0000-0000-000000000000","status":"Confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, got)
}

type stubStrategy struct {
	name      auth.StrategyName
	principal *auth.Principal
	err       error
}

func (s stubStrategy) Name() auth.StrategyName { return s.name }

func (s stubStrategy) Resolve(echo.Context) (*auth.Principal, error) {
	return s.principal, s.err
}

func TestAuthenticate(t *testing.T) {
	admin := &model.Admin{Base: model.Base{ID: "a1"}, Role: model.AdminRoleEmployee}
	resolved := stubStrategy{name: auth.StrategyJWTB2B, principal: &auth.Principal{Kind: auth.KindAdmin, Admin: admin}}
	empty := stubStrategy{name: auth.StrategyGoogleSession, err: auth.ErrNoCredentials}
	expired := stubStrategy{name: auth.StrategyJWTB2C, err: fmt.Errorf("%w: token is expired", jwtutil.ErrInvalidToken)}
	revoked := stubStrategy{name: auth.StrategyJWTB2C, err: auth.ErrRevoked}
	gone := stubStrategy{name: auth.StrategyJWTB2B, err: auth.ErrPrincipalGone}
	outage := stubStrategy{name: auth.StrategyJWTB2C, err: errors.New("load session: connection refused")}

	tests := []struct {
		name       string
		strategies []auth.Strategy
		status     int
	}{
		{"first success wins", []auth.Strategy{empty, resolved}, http.StatusOK},
		{"invalid token", []auth.Strategy{empty, expired}, http.StatusUnauthorized},
		{"revoked token", []auth.Strategy{revoked, empty}, http.StatusUnauthorized},
		{"deleted principal", []auth.Strategy{gone}, http.StatusUnauthorized},
		{"nothing presented", []auth.Strategy{empty}, http.StatusUnauthorized},
		{"store outage", []auth.Strategy{empty, outage, resolved}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho()
			e.GET("/", func(c echo.Context) error {
				p, err := auth.PrincipalFrom(c)
				if err != nil {
					return err
				}
				return c.String(http.StatusOK, p.ID())
			}, Authenticate(tt.strategies...))

			rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
			switch tt.status {
			case http.StatusUnauthorized:
				assert.JSONEq(t, `{"messages":["Not authorized"]}`, rec.Body.String())
			case http.StatusInternalServerError:
				assert.NotContains(t, rec.Body.String(), "connection refused")
			default:
				assert.Equal(t, "a1", rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	for _, tt := range []struct {
		role   model.AdminRole
		status int
	}{
		{model.AdminRoleAdmin, http.StatusOK},
		{model.AdminRoleEmployee, http.StatusUnauthorized},
	} {
		e := newEcho()
		admin := &model.Admin{Base: model.Base{ID: "a1"}, Role: tt.role}
		e.GET("/", func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}, func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				auth.SetPrincipal(c, &auth.Principal{Kind: auth.KindAdmin, Admin: admin})
				return next(c)
			}
		}, RequireRole(model.AdminRoleAdmin))

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tt.status, rec.Code, tt.role)
		if tt.status != http.StatusOK {
			assert.Contains(t, rec.Body.String(), PermissionDenied)
		}
	}
}

func TestRequestID(t *testing.T) {
	e := newEcho()
	e.Use(RequestID(zap.NewNop()))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "given")
	rec = serve(e, req)
	assert.Equal(t, "given", rec.Header().Get(echo.HeaderXRequestID))
}

func TestRedisRateLimiter_SlidingWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRateLimiterStore(client, config.RateLimitConfig{Window: time.Minute, Max: 3}, zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	e := newEcho()
	e.Use(RateLimit(store))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	request := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXForwardedFor, ip+", 10.0.0.1")
		return serve(e, req)
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, request("1.1.1.1").Code)
		now = now.Add(time.Second)
	}
	rec := request("1.1.1.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, rec.Body.String())

	// other clients are counted separately
	assert.Equal(t, http.StatusOK, request("2.2.2.2").Code)
	assert.True(t, mr.Exists("ratelimit:1.1.1.1"))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, http.StatusOK, request("1.1.1.1").Code)
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	// no expectations: every command fails
	client, _ := redismock.NewClientMock()

	store := NewRedisRateLimiterStore(client, config.RateLimitConfig{Window: time.Minute, Max: 1}, zap.NewNop())
	allowed, err := store.Allow("1.1.1.1")
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestClientIdentifier(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	c := e.NewContext(req, httptest.NewRecorder())

	id, err := ClientIdentifier(c)
	require.NoError(t, err)
	assert.Equal(t, "9.9.9.9", id)

	req.Header.Set(echo.HeaderXForwardedFor, " 3.3.3.3 , 4.4.4.4")
	id, err = ClientIdentifier(c)
	require.NoError(t, err)
	assert.Equal(t, "3.3.3.3", id)
}
