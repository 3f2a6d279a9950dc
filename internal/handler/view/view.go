// Package view shapes models into response bodies.
package view

import (
	"time"

	"github.com/suteetoe/restb/internal/model"
)

// IDOnly is the minimal reference returned by mutations
type IDOnly struct {
	ID string `json:"id"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{Page: page, Limit: limit, Total: total}
}

type Brand struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logoURL"`
}

func NewBrand(b *model.Brand) *Brand {
	if b == nil {
		return nil
	}
	return &Brand{ID: b.ID, Name: b.Name, LogoURL: b.LogoURL}
}

type Address struct {
	Building  string  `json:"building"`
	Street    string  `json:"street"`
	City      string  `json:"city"`
	Postcode  string  `json:"postcode"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func NewAddress(a *model.Address) *Address {
	if a == nil {
		return nil
	}
	return &Address{
		Building:  a.Building,
		Street:    a.Street,
		City:      a.City,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	}
}

// Availability tells how many more guests are approved automatically on Date
type Availability struct {
	Date                   time.Time `json:"date"`
	AutoConfirmGuestsLimit int       `json:"autoConfirmGuestsLimit"`
}

// NewAvailability subtracts the day's approved guests from the restaurant's threshold
func NewAvailability(r *model.Restaurant, date time.Time, approvedGuests int) Availability {
	return Availability{
		Date:                   date,
		AutoConfirmGuestsLimit: r.AutoApprovedBookingsNum - approvedGuests,
	}
}

type Restaurant struct {
	ID                      string                     `json:"id"`
	Name                    string                     `json:"name"`
	Description             *string                    `json:"description,omitempty"`
	BannerURL               string                     `json:"bannerURL"`
	PhotosURL               []string                   `json:"photosURL"`
	TimeFrom                string                     `json:"timeFrom"`
	TimeTo                  string                     `json:"timeTo"`
	Categories              []model.RestaurantCategory `json:"categories"`
	AutoApprovedBookingsNum int                        `json:"autoApprovedBookingsNum"`
}

func NewRestaurant(r *model.Restaurant) Restaurant {
	photos := []string(r.PhotosURL)
	if photos == nil {
		photos = []string{}
	}
	categories := []model.RestaurantCategory(r.Categories)
	if categories == nil {
		categories = []model.RestaurantCategory{}
	}
	return Restaurant{
		ID:                      r.ID,
		Name:                    r.Name,
		Description:             r.Description,
		BannerURL:               r.BannerURL,
		PhotosURL:               photos,
		TimeFrom:                r.TimeFrom,
		TimeTo:                  r.TimeTo,
		Categories:              categories,
		AutoApprovedBookingsNum: r.AutoApprovedBookingsNum,
	}
}

// PublicRestaurant is the consumer facing restaurant
type PublicRestaurant struct {
	Restaurant
	Brand        *Brand       `json:"brand"`
	Address      *Address     `json:"address"`
	Availability Availability `json:"availability"`
}

func NewPublicRestaurant(r *model.Restaurant, availability Availability) PublicRestaurant {
	return PublicRestaurant{
		Restaurant:   NewRestaurant(r),
		Brand:        NewBrand(r.Brand),
		Address:      NewAddress(r.Address),
		Availability: availability,
	}
}

// BrandRestaurant is a restaurant as its brand's admins see it
type BrandRestaurant struct {
	Restaurant
	Brand   *Brand         `json:"brand,omitempty"`
	Address *Address       `json:"address"`
	Staff   []AdminSummary `json:"staff"`
}

func NewBrandRestaurant(r *model.Restaurant) BrandRestaurant {
	staff := make([]AdminSummary, 0, len(r.Staff))
	for _, s := range r.Staff {
		if s.Admin != nil {
			staff = append(staff, NewAdminSummary(s.Admin))
		}
	}
	return BrandRestaurant{
		Restaurant: NewRestaurant(r),
		Brand:      NewBrand(r.Brand),
		Address:    NewAddress(r.Address),
		Staff:      staff,
	}
}

// RestaurantSummaries is a brand restaurant with its upcoming booking roll-up
type RestaurantSummaries struct {
	BrandRestaurant
	BookingsDailySummaries []Summary `json:"bookingsDailySummaries"`
}

// RestaurantName is the short reference used by the dashboard
type RestaurantName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
