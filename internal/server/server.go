// Package server mounts every route of the API on an echo instance.
package server

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/handler/b2b"
	"github.com/suteetoe/restb/internal/handler/b2c"
	"github.com/suteetoe/restb/internal/handler/health"
	"github.com/suteetoe/restb/internal/handler/upload"
	"github.com/suteetoe/restb/internal/middleware"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/pkg/metrics"
)

// Handlers groups the controllers served by the API
type Handlers struct {
	B2C    *b2c.Handler
	B2B    *b2b.Handler
	Upload *upload.Handler
	Health *health.Handler
}

// Routes describes what Register mounts
type Routes struct {
	Registry   *schema.Registry
	Strategies *auth.Strategies
	Handlers   Handlers
	Now        func() time.Time
}

// Register mounts the route table on e.
// Requests are validated before they are authenticated, except where a route
// needs the caller's role first.
func Register(e *echo.Echo, r Routes) {
	v := middleware.NewValidator(r.Registry, r.Now)
	s := r.Strategies
	h := r.Handlers

	e.GET("/health", h.Health.Live, v.For(schema.Health))
	e.GET("/health/ready", h.Health.Ready, v.For(schema.HealthReady))
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))

	api := e.Group("/api")
	api.PUT("/upload-url", h.Upload.UploadURL, v.For(schema.UploadURL), middleware.Authenticate(s.JWTB2B))

	registerB2C(api.Group("/b2c/v1"), v, s, h.B2C)
	registerB2B(api.Group("/b2b/v1"), v, s, h.B2B)
}

func registerB2C(g *echo.Group, v *middleware.Validator, s *auth.Strategies, h *b2c.Handler) {
	consumer := middleware.Authenticate(s.JWTB2C, s.GoogleSession)

	authz := g.Group("/authorization")
	authz.POST("/register", h.Register, v.For(schema.B2CRegister))
	authz.POST("/login", h.Login, v.For(schema.B2CLogin))
	authz.GET("/google", h.Google, v.For(schema.B2CGoogle))
	authz.GET("/google/redirect", h.GoogleRedirect, v.For(schema.B2CGoogleCallback))
	authz.GET("/logout", h.Logout, v.For(schema.B2CLogout), consumer)
	authz.POST("/forgot-password", h.ForgotPassword, v.For(schema.B2CForgotPassword))
	authz.POST("/reset-password", h.ResetPassword, v.For(schema.B2CResetPassword),
		middleware.Authenticate(s.JWTB2CForgotPassword, s.GoogleSession))

	user := g.Group("/user")
	user.GET("/:userID", h.GetUser, v.For(schema.B2CGetUser), consumer)
	user.DELETE("", h.DeleteUser, v.For(schema.B2CDeleteUser), consumer)

	restaurant := g.Group("/restaurant")
	restaurant.GET("", h.ListRestaurants, v.For(schema.B2CListRestaurant))
	restaurant.GET("/:restaurantID", h.GetRestaurant, v.For(schema.B2CGetRestaurant))

	booking := g.Group("/booking")
	booking.POST("", h.CreateBooking, v.For(schema.B2CCreateBooking), consumer)
	booking.GET("", h.ListBookings, v.For(schema.B2CListBookings), consumer)
	booking.GET("/:bookingID", h.GetBooking, v.For(schema.B2CGetBooking), consumer)
}

func registerB2B(g *echo.Group, v *middleware.Validator, s *auth.Strategies, h *b2b.Handler) {
	business := middleware.Authenticate(s.JWTB2B)
	adminOnly := middleware.RequireRole(model.AdminRoleAdmin)

	authz := g.Group("/authorization")
	authz.POST("/register", h.Register, v.For(schema.B2BRegister))
	authz.POST("/login", h.Login, v.For(schema.B2BLogin))
	authz.GET("/logout", h.Logout, v.For(schema.B2BLogout), business)
	authz.POST("/forgot-password", h.ForgotPassword, v.For(schema.B2BForgotPassword))
	authz.POST("/reset-password", h.ResetPassword, v.For(schema.B2BResetPassword),
		middleware.Authenticate(s.JWTB2BForgotPassword))
	authz.POST("/auth/invite", h.Invite, v.For(schema.B2BInvite), business, adminOnly)
	authz.POST("/auth/employee/register", h.RegisterEmployee, v.For(schema.B2BRegisterEmployee),
		middleware.Authenticate(s.JWTB2BInvite))

	admin := g.Group("/admin")
	admin.GET("/:adminID", h.GetAdmin, v.For(schema.B2BGetAdmin), business)
	admin.PATCH("", h.UpdateAdmin, v.For(schema.B2BUpdateAdmin), business)
	admin.DELETE("/:adminID", h.DeleteAdmin, v.For(schema.B2BDeleteAdmin), business)

	brand := g.Group("/brand")
	brand.GET("/:brandID", h.GetBrand, v.For(schema.B2BGetBrand), business)
	brand.PATCH("/:brandID", h.UpdateBrand, v.For(schema.B2BUpdateBrand), business, adminOnly)

	// role gates these routes ahead of body validation
	restaurant := g.Group("/restaurant", business)
	restaurant.GET("", h.ListRestaurants, v.For(schema.B2BListRestaurants))
	restaurant.PUT("", h.UpsertRestaurant, adminOnly, v.For(schema.B2BUpsertRestaurant))
	restaurant.DELETE("/:restaurantID", h.DeleteRestaurant, adminOnly, v.For(schema.B2BDeleteRestaurant))
	restaurant.PUT("/:restaurantID/staff", h.UpdateStaff, adminOnly, v.For(schema.B2BUpdateStaff))

	booking := g.Group("/booking")
	booking.GET("", h.ListBookings, v.For(schema.B2BListBookings), business)
	booking.GET("/:restaurantID", h.RestaurantBookings, v.For(schema.B2BRestaurantBooks), business)
	booking.PATCH("/:bookingID", h.UpdateBooking, v.For(schema.B2BUpdateBooking),
		middleware.Authenticate(s.JWTB2C, s.GoogleSession, s.JWTB2B))

	g.GET("/dashboard", h.Dashboard, v.For(schema.B2BDashboard), business)
}
