package schema

import (
	"time"

	"github.com/suteetoe/restb/internal/model"
)

// RegisterAdminRequest is POST /b2b/v1/authorization/register
type RegisterAdminRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=3,max=255"`
	Phone     string `json:"phone" validate:"required,min=5,max=30"`
}

func (r *RegisterAdminRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	trim(&r.FirstName, &r.LastName, &r.Phone)
}

// InviteEmployeeRequest is POST /b2b/v1/authorization/auth/invite
type InviteEmployeeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

func (r *InviteEmployeeRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// RegisterEmployeeRequest is POST /b2b/v1/authorization/auth/employee/register
type RegisterEmployeeRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Password  string `json:"password" validate:"required,min=3,max=255"`
	Phone     string `json:"phone" validate:"required,min=5,max=30"`
}

func (r *RegisterEmployeeRequest) Normalize() {
	trim(&r.FirstName, &r.LastName, &r.Phone)
}

// AdminIDRequest addresses one admin by path
type AdminIDRequest struct {
	AdminID string `param:"adminID" validate:"required,uuid"`
}

// UpdateAdminRequest is PATCH /b2b/v1/admin
type UpdateAdminRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,min=5,max=30"`
	AvatarURL *string `json:"avatarURL" validate:"omitempty,url"`
}

func (r *UpdateAdminRequest) Normalize() {
	trim(r.FirstName, r.LastName, r.Phone, r.AvatarURL)
}

// Changes lists the columns to update
func (r *UpdateAdminRequest) Changes() map[string]interface{} {
	out := map[string]interface{}{}
	if r.FirstName != nil {
		out["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		out["last_name"] = *r.LastName
	}
	if r.Phone != nil {
		out["phone"] = *r.Phone
	}
	if r.AvatarURL != nil {
		out["avatar_url"] = *r.AvatarURL
	}
	return out
}

// BrandIDRequest addresses a brand by path
type BrandIDRequest struct {
	BrandID string `param:"brandID" validate:"required,uuid"`
}

// UpdateBrandRequest is PATCH /b2b/v1/brand/:brandID
type UpdateBrandRequest struct {
	BrandID string  `param:"brandID" validate:"required,uuid"`
	Name    string  `json:"name" validate:"required,min=1,max=255"`
	LogoURL *string `json:"logoURL" validate:"omitempty,url"`
}

func (r *UpdateBrandRequest) Normalize() {
	trim(&r.Name, r.LogoURL)
}

// ListBrandRestaurantsRequest is GET /b2b/v1/restaurant; brandID is accepted but the caller's brand is used
type ListBrandRestaurantsRequest struct {
	BrandID string `query:"brandID" validate:"omitempty,uuid"`
	Pagination
}

func (r *ListBrandRestaurantsRequest) Preset() {
	r.Pagination.preset(20)
}

// UpsertRestaurantRequest is PUT /b2b/v1/restaurant
type UpsertRestaurantRequest struct {
	RestaurantID            string       `json:"restaurantID" validate:"omitempty,uuid"`
	Name                    string       `json:"name" validate:"required,min=1,max=255"`
	Description             *string      `json:"description" validate:"omitempty,min=20,max=5000"`
	BannerURL               string       `json:"bannerURL" validate:"required,url"`
	PhotosURL               []string     `json:"photosURL" validate:"max=20,dive,url"`
	Categories              []string     `json:"categories" validate:"required,min=1,max=5,dive,oneof=BBQ Italian Japanese Chinese Indian Mexican French Vegan Seafood FastFood Cafe Bar"`
	AutoApprovedBookingsNum int          `json:"autoApprovedBookingsNum" validate:"min=0,max=10000"`
	TimeFrom                string       `json:"timeFrom" validate:"required,hhmm"`
	TimeTo                  string       `json:"timeTo" validate:"required,hhmm,timeafter=TimeFrom"`
	Address                 AddressInput `json:"address" validate:"required"`
}

func (r *UpsertRestaurantRequest) Defaults(now time.Time) {
	if r.PhotosURL == nil {
		r.PhotosURL = []string{}
	}
}

func (r *UpsertRestaurantRequest) Normalize() {
	trim(&r.Name, r.Description, &r.TimeFrom, &r.TimeTo)
	r.Address.normalize()
}

// CategoryList returns the categories as model values
func (r *UpsertRestaurantRequest) CategoryList() []model.RestaurantCategory {
	return toCategories(r.Categories)
}

// RestaurantIDRequest addresses a restaurant by path
type RestaurantIDRequest struct {
	RestaurantID string `param:"restaurantID" validate:"required,uuid"`
}

// UpdateStaffRequest is PUT /b2b/v1/restaurant/:restaurantID/staff
type UpdateStaffRequest struct {
	RestaurantID string   `param:"restaurantID" validate:"required,uuid"`
	AdminIDs     []string `json:"adminIDs" validate:"max=100,dive,uuid"`
}

// ListBrandBookingsRequest is GET /b2b/v1/booking
type ListBrandBookingsRequest struct {
	Statuses []string `query:"statuses" validate:"omitempty,dive,oneof=Pending Confirmed Approved CanceledByUser CanceledByAdmin"`
	Pagination
}

func (r *ListBrandBookingsRequest) Preset() {
	r.Pagination.preset(20)
}

// StatusList returns the requested statuses as model values
func (r *ListBrandBookingsRequest) StatusList() []model.BookingStatus {
	return toStatuses(r.Statuses)
}

// ListRestaurantBookingsRequest is GET /b2b/v1/booking/:restaurantID
type ListRestaurantBookingsRequest struct {
	RestaurantID string   `param:"restaurantID" validate:"required,uuid"`
	Statuses     []string `query:"status" validate:"min=1,dive,oneof=Pending Confirmed Approved CanceledByUser CanceledByAdmin"`
	DateFrom     Time     `query:"dateFrom"`
	DateTo       Time     `query:"dateTo" validate:"gtfield=DateFrom"`
}

func (r *ListRestaurantBookingsRequest) Defaults(now time.Time) {
	if len(r.Statuses) == 0 {
		r.Statuses = []string{string(model.BookingStatusConfirmed), string(model.BookingStatusPending)}
	}
	if r.DateFrom.IsZero() {
		r.DateFrom = NewTime(now)
	}
	if r.DateTo.IsZero() {
		r.DateTo = NewTime(r.DateFrom.AddDate(0, 0, 7))
	}
}

// StatusList returns the requested statuses as model values
func (r *ListRestaurantBookingsRequest) StatusList() []model.BookingStatus {
	return toStatuses(r.Statuses)
}

// UpdateBookingRequest is PATCH /b2b/v1/booking/:bookingID
type UpdateBookingRequest struct {
	BookingID  string           `param:"bookingID" validate:"required,uuid"`
	Status     string           `json:"status" validate:"required,oneof=Pending Confirmed Approved CanceledByUser CanceledByAdmin"`
	Discussion *DiscussionInput `json:"discussion" validate:"omitempty"`
}

func (r *UpdateBookingRequest) Normalize() {
	r.Discussion.normalize()
}

// DashboardRequest is GET /b2b/v1/dashboard
type DashboardRequest struct {
	TimeFrom Time `query:"timeFrom"`
	TimeTo   Time `query:"timeTo" validate:"gtfield=TimeFrom"`
}

func (r *DashboardRequest) Defaults(now time.Time) {
	if r.TimeFrom.IsZero() {
		r.TimeFrom = NewTime(now)
	}
	if r.TimeTo.IsZero() {
		r.TimeTo = NewTime(r.TimeFrom.AddDate(0, 0, 7))
	}
}

// UploadURLRequest is PUT /upload-url
type UploadURLRequest struct {
	Filename    string `json:"filename" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required,oneof=image/png image/jpeg image/webp"`
}

func (r *UploadURLRequest) Normalize() {
	trim(&r.Filename)
}
