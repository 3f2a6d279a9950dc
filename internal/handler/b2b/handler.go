// Package b2b serves the business API used by brand admins and employees.
package b2b

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/middleware"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/service/email"
	"github.com/suteetoe/restb/internal/service/geocode"
	"github.com/suteetoe/restb/pkg/jwtutil"
)

// AdminStore persists business accounts
type AdminStore interface {
	FindByID(ctx context.Context, id string, opts ...repository.FindOption) (*model.Admin, error)
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindInBrand(ctx context.Context, id, brandID string) (*model.Admin, error)
	CountEmployeesInBrand(ctx context.Context, ids []string, brandID string) (int64, error)
	CreateWithBrand(ctx context.Context, admin *model.Admin, brand *model.Brand) error
	Create(ctx context.Context, admin *model.Admin) error
	Update(ctx context.Context, id string, values map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
}

// BrandStore persists brands
type BrandStore interface {
	FindByID(ctx context.Context, id string, opts ...repository.FindOption) (*model.Brand, error)
	Update(ctx context.Context, id string, values map[string]interface{}) error
}

// RestaurantStore reads and writes a brand's restaurants
type RestaurantStore interface {
	FindInBrand(ctx context.Context, id, brandID string, withStaff bool) (*model.Restaurant, error)
	Search(ctx context.Context, f repository.RestaurantFilter) ([]model.Restaurant, int64, error)
	ListInBrand(ctx context.Context, brandID string) ([]model.Restaurant, error)
	CreateWithAddress(ctx context.Context, restaurant *model.Restaurant, address *model.Address) error
	UpdateWithAddress(ctx context.Context, restaurantID, addressID string, restaurant, address map[string]interface{}) error
	ReplaceStaff(ctx context.Context, restaurantID string, adminIDs []string) error
	SoftDelete(ctx context.Context, id string) error
}

// BookingStore reads and updates bookings
type BookingStore interface {
	ListForRestaurant(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error)
	FindInBrand(ctx context.Context, id, brandID string) (*model.Booking, error)
	FindForUser(ctx context.Context, id, userID string) (*model.Booking, error)
	Update(ctx context.Context, id string, values map[string]interface{}) error
}

// SummaryStore reads stored daily summaries
type SummaryStore interface {
	InRange(ctx context.Context, restaurantIDs []string, from, to time.Time) ([]model.BookingsDailySummary, error)
}

// SummaryRanger returns dense per-day summaries, computing days not yet rolled up
type SummaryRanger interface {
	Range(ctx context.Context, restaurantIDs []string, from, to time.Time) (map[string][]model.BookingsDailySummary, error)
}

// Mailer sends notifications without blocking the request
type Mailer interface {
	Dispatch(ctx context.Context, e email.Email)
}

// Deps are the collaborators of the business handlers
type Deps struct {
	Admins      AdminStore
	Brands      BrandStore
	Restaurants RestaurantStore
	Bookings    BookingStore
	Summaries   SummaryStore
	Dashboard   SummaryRanger
	Sessions    *auth.SessionStore
	Denylist    *auth.Denylist
	Tokens      *jwtutil.JWTUtil
	Mailer      Mailer
	Geocoder    geocode.Geocoder
	FrontendURL string
	Now         func() time.Time
}

// Handler serves /api/b2b/v1
type Handler struct {
	admins      AdminStore
	brands      BrandStore
	restaurants RestaurantStore
	bookings    BookingStore
	summaries   SummaryStore
	dashboard   SummaryRanger
	sessions    *auth.SessionStore
	denylist    *auth.Denylist
	tokens      *jwtutil.JWTUtil
	mailer      Mailer
	geocoder    geocode.Geocoder
	frontendURL string
	now         func() time.Time
}

func New(deps Deps) *Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Handler{
		admins:      deps.Admins,
		brands:      deps.Brands,
		restaurants: deps.Restaurants,
		bookings:    deps.Bookings,
		summaries:   deps.Summaries,
		dashboard:   deps.Dashboard,
		sessions:    deps.Sessions,
		denylist:    deps.Denylist,
		tokens:      deps.Tokens,
		mailer:      deps.Mailer,
		geocoder:    deps.Geocoder,
		frontendURL: deps.FrontendURL,
		now:         deps.Now,
	}
}

// adminOf returns the calling admin and its brand id
func adminOf(c echo.Context) (*model.Admin, string, *auth.Principal, error) {
	admin, p, err := auth.AdminFrom(c)
	if err != nil {
		return nil, "", nil, err
	}
	brandID := admin.BrandIDValue()
	if brandID == "" {
		return nil, "", nil, apperror.Forbidden(middleware.PermissionDenied)
	}
	return admin, brandID, p, nil
}

func (h *Handler) revoke(ctx context.Context, p *auth.Principal) error {
	if p.Token == "" || p.Claims == nil {
		return nil
	}
	return h.denylist.Revoke(ctx, p.Token, p.Claims.TTL(h.now()))
}
