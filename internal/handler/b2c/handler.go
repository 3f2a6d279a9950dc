// Package b2c serves the consumer API.
package b2c

import (
	"context"
	"time"

	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/service/email"
	"github.com/suteetoe/restb/internal/service/geocode"
	"github.com/suteetoe/restb/pkg/jwtutil"
)

// UserStore persists consumers
type UserStore interface {
	FindByID(ctx context.Context, id string, opts ...repository.FindOption) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByEmailOrGoogleID(ctx context.Context, email, googleID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id string, values map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
}

// RestaurantStore reads restaurants
type RestaurantStore interface {
	FindDetailed(ctx context.Context, id string) (*model.Restaurant, error)
	Search(ctx context.Context, f repository.RestaurantFilter) ([]model.Restaurant, int64, error)
}

// BrandStore reads brands
type BrandStore interface {
	FindByID(ctx context.Context, id string, opts ...repository.FindOption) (*model.Brand, error)
}

// BookingStore persists bookings
type BookingStore interface {
	ApprovedGuests(ctx context.Context, restaurantIDs []string, day time.Time) (map[string]int, error)
	ListForUser(ctx context.Context, f repository.BookingFilter) ([]model.Booking, int64, error)
	FindForUser(ctx context.Context, id, userID string) (*model.Booking, error)
	Create(ctx context.Context, booking *model.Booking) error
}

// Mailer sends notifications without blocking the request
type Mailer interface {
	Dispatch(ctx context.Context, e email.Email)
}

// OAuthProvider runs the Google authorization code flow
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleProfile, error)
}

// Deps are the collaborators of the consumer handlers
type Deps struct {
	Users       UserStore
	Restaurants RestaurantStore
	Brands      BrandStore
	Bookings    BookingStore
	Sessions    *auth.SessionStore
	Denylist    *auth.Denylist
	Tokens      *jwtutil.JWTUtil
	Mailer      Mailer
	Geocoder    geocode.Geocoder
	OAuth       OAuthProvider
	FrontendURL string
	Now         func() time.Time
}

// Handler serves /api/b2c/v1
type Handler struct {
	users       UserStore
	restaurants RestaurantStore
	brands      BrandStore
	bookings    BookingStore
	sessions    *auth.SessionStore
	denylist    *auth.Denylist
	tokens      *jwtutil.JWTUtil
	mailer      Mailer
	geocoder    geocode.Geocoder
	oauth       OAuthProvider
	frontendURL string
	now         func() time.Time
}

func New(deps Deps) *Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Handler{
		users:       deps.Users,
		restaurants: deps.Restaurants,
		brands:      deps.Brands,
		bookings:    deps.Bookings,
		sessions:    deps.Sessions,
		denylist:    deps.Denylist,
		tokens:      deps.Tokens,
		mailer:      deps.Mailer,
		geocoder:    deps.Geocoder,
		oauth:       deps.OAuth,
		frontendURL: deps.FrontendURL,
		now:         deps.Now,
	}
}

// revoke denylists the token that authenticated p until it would expire
func (h *Handler) revoke(ctx context.Context, p *auth.Principal) error {
	if p.Token == "" || p.Claims == nil {
		return nil
	}
	return h.denylist.Revoke(ctx, p.Token, p.Claims.TTL(h.now()))
}
