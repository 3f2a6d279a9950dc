package view

import (
	"time"

	"github.com/suteetoe/restb/internal/model"
)

type Booking struct {
	ID           string                 `json:"id"`
	GuestsNumber int                    `json:"guestsNumber"`
	BookingTime  time.Time              `json:"bookingTime"`
	Status       model.BookingStatus    `json:"status"`
	Discussion   []model.DiscussionItem `json:"discussion"`
}

func NewBooking(b *model.Booking) Booking {
	discussion := []model.DiscussionItem(b.Discussion)
	if discussion == nil {
		discussion = []model.DiscussionItem{}
	}
	return Booking{
		ID:           b.ID,
		GuestsNumber: b.GuestsNumber,
		BookingTime:  b.BookingTime,
		Status:       b.Status,
		Discussion:   discussion,
	}
}

// BookingRestaurant is the restaurant summary attached to a consumer's booking
type BookingRestaurant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BannerURL string `json:"bannerURL"`
	Brand     *Brand `json:"brand"`
}

// UserBooking is a booking as its consumer sees it
type UserBooking struct {
	Booking
	Restaurant *BookingRestaurant `json:"restaurant"`
}

func NewUserBooking(b *model.Booking) UserBooking {
	out := UserBooking{Booking: NewBooking(b)}
	if r := b.Restaurant; r != nil {
		out.Restaurant = &BookingRestaurant{
			ID:        r.ID,
			Name:      r.Name,
			BannerURL: r.BannerURL,
			Brand:     NewBrand(r.Brand),
		}
	}
	return out
}

// RestaurantBooking is a booking as the restaurant's staff sees it
type RestaurantBooking struct {
	Booking
	User *UserSummary `json:"user"`
}

func NewRestaurantBooking(b *model.Booking) RestaurantBooking {
	return RestaurantBooking{Booking: NewBooking(b), User: NewUserSummary(b.User)}
}

// Summary is one day of a restaurant's booking roll-up
type Summary struct {
	Date                 time.Time `json:"date"`
	TotalApproved        int       `json:"totalApproved"`
	TotalPending         int       `json:"totalPending"`
	TotalCanceledByUser  int       `json:"totalCanceledByUser"`
	TotalCanceledByAdmin int       `json:"totalCanceledByAdmin"`
	TotalGuests          int       `json:"totalGuests"`
}

func NewSummaries(rows []model.BookingsDailySummary) []Summary {
	out := make([]Summary, 0, len(rows))
	for _, s := range rows {
		out = append(out, Summary{
			Date:                 s.Date,
			TotalApproved:        s.TotalApproved,
			TotalPending:         s.TotalPending,
			TotalCanceledByUser:  s.TotalCanceledByUser,
			TotalCanceledByAdmin: s.TotalCanceledByAdmin,
			TotalGuests:          s.TotalGuests,
		})
	}
	return out
}
