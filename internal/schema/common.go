package schema

import (
	"strings"
	"time"

	"github.com/suteetoe/restb/internal/model"
)

// Defaulter fills in values the client left out
type Defaulter interface {
	Defaults(now time.Time)
}

// Presetter seeds constant defaults before binding, so a value the client
// sends, zero included, overwrites them and is validated as sent
type Presetter interface {
	Preset()
}

// Normalizer canonicalises values before validation
type Normalizer interface {
	Normalize()
}

// Pagination is shared by every listing endpoint
type Pagination struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

func (p *Pagination) preset(limit int) {
	p.Page = 1
	p.Limit = limit
}

// Offset is the number of rows skipped for the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// AddressInput is a structured address without coordinates
type AddressInput struct {
	Building string `json:"building" validate:"required,max=100"`
	Street   string `json:"street" validate:"required,max=255"`
	City     string `json:"city" validate:"required,max=100"`
	Postcode string `json:"postcode" validate:"required,max=20"`
	Country  string `json:"country" validate:"required,max=100"`
}

func (a *AddressInput) normalize() {
	a.Building = strings.TrimSpace(a.Building)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.Postcode = strings.TrimSpace(a.Postcode)
	a.Country = strings.TrimSpace(a.Country)
}

// DiscussionInput is a new message on a booking
type DiscussionInput struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

func (d *DiscussionInput) normalize() {
	if d != nil {
		d.Message = strings.TrimSpace(d.Message)
	}
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trim(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}

// toCategories converts validated category names
func toCategories(in []string) []model.RestaurantCategory {
	out := make([]model.RestaurantCategory, 0, len(in))
	for _, c := range in {
		out = append(out, model.RestaurantCategory(c))
	}
	return out
}
