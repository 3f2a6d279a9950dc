package schema

import (
	"time"

	"github.com/suteetoe/restb/internal/model"
)

// RegisterUserRequest is POST /b2c/v1/authorization/register
type RegisterUserRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=3,max=255"`
}

func (r *RegisterUserRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	trim(&r.FirstName, &r.LastName)
}

// LoginRequest is shared by the b2c and b2b login endpoints
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=255"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// ForgotPasswordRequest is shared by the b2c and b2b forgot-password endpoints
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// ResetPasswordRequest is shared by the b2c and b2b reset-password endpoints
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=3,max=255"`
}

// GoogleCallbackRequest carries the OAuth redirect parameters
type GoogleCallbackRequest struct {
	Code  string `query:"code" validate:"required"`
	State string `query:"state" validate:"required"`
}

// GetUserRequest is GET /b2c/v1/user/:userID
type GetUserRequest struct {
	UserID string `param:"userID" validate:"required,uuid"`
}

// GetRestaurantRequest is GET /b2c/v1/restaurant/:restaurantID
type GetRestaurantRequest struct {
	RestaurantID string `param:"restaurantID" validate:"required,uuid"`
	Date         Time   `query:"date"`
}

func (r *GetRestaurantRequest) Defaults(now time.Time) {
	if r.Date.IsZero() {
		r.Date = NewTime(now)
	}
}

// ListRestaurantsRequest is GET /b2c/v1/restaurant
type ListRestaurantsRequest struct {
	Search     string   `query:"search" validate:"omitempty,min=2,max=255"`
	Radius     int      `query:"radius" validate:"min=1,max=100"`
	BrandID    string   `query:"brandID" validate:"omitempty,uuid"`
	Date       Time     `query:"date"`
	Categories []string `query:"categories" validate:"omitempty,max=12,dive,oneof=BBQ Italian Japanese Chinese Indian Mexican French Vegan Seafood FastFood Cafe Bar"`
	Pagination
}

func (r *ListRestaurantsRequest) Preset() {
	r.Radius = 20
	r.Pagination.preset(20)
}

func (r *ListRestaurantsRequest) Defaults(now time.Time) {
	if r.Date.IsZero() {
		r.Date = NewTime(now)
	}
}

func (r *ListRestaurantsRequest) Normalize() {
	trim(&r.Search)
}

// CategoryList returns the requested categories as model values
func (r *ListRestaurantsRequest) CategoryList() []model.RestaurantCategory {
	return toCategories(r.Categories)
}

// CreateBookingRequest is POST /b2c/v1/booking
type CreateBookingRequest struct {
	RestaurantID string           `json:"restaurantID" validate:"required,uuid"`
	GuestsNumber int              `json:"guestsNumber" validate:"required,min=1,max=100"`
	BookingTime  Time             `json:"bookingTime" validate:"required"`
	Discussion   *DiscussionInput `json:"discussion" validate:"omitempty"`
}

func (r *CreateBookingRequest) Normalize() {
	r.Discussion.normalize()
}

// ListUserBookingsRequest is GET /b2c/v1/booking
type ListUserBookingsRequest struct {
	DateFrom Time     `query:"dateFrom"`
	DateTo   Time     `query:"dateTo" validate:"omitempty,gtefield=DateFrom"`
	Statuses []string `query:"statuses" validate:"omitempty,dive,oneof=Pending Confirmed Approved CanceledByUser CanceledByAdmin"`
	Pagination
}

func (r *ListUserBookingsRequest) Preset() {
	r.Pagination.preset(10)
}

// StatusList returns the requested statuses as model values
func (r *ListUserBookingsRequest) StatusList() []model.BookingStatus {
	return toStatuses(r.Statuses)
}

// GetBookingRequest is GET /b2c/v1/booking/:bookingID
type GetBookingRequest struct {
	BookingID string `param:"bookingID" validate:"required,uuid"`
}

func toStatuses(in []string) []model.BookingStatus {
	out := make([]model.BookingStatus, 0, len(in))
	for _, s := range in {
		out = append(out, model.BookingStatus(s))
	}
	return out
}
