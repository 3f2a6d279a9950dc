package repository

import (
	"context"
	"time"

	"github.com/suteetoe/restb/internal/model"
	"gorm.io/gorm"
)

// BookingFilter narrows a booking listing
type BookingFilter struct {
	UserID       string
	RestaurantID string
	Statuses     []model.BookingStatus
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
}

// DailyTotals is one restaurant/day aggregate computed from bookings
type DailyTotals struct {
	RestaurantID         string
	Date                 time.Time
	TotalApproved        int
	TotalPending         int
	TotalCanceledByUser  int
	TotalCanceledByAdmin int
	TotalGuests          int
}

// BookingQueries holds booking reads and aggregates
type BookingQueries struct {
	*Repository[model.Booking]
}

func NewBookingQueries(db *gorm.DB) *BookingQueries {
	return &BookingQueries{Repository: New[model.Booking](db)}
}

// DayBounds returns the half-open [start, end) range of t's calendar day
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// ApprovedGuests sums guests of approved bookings per restaurant on day
func (q *BookingQueries) ApprovedGuests(ctx context.Context, restaurantIDs []string, day time.Time) (map[string]int, error) {
	out := make(map[string]int, len(restaurantIDs))
	if len(restaurantIDs) == 0 {
		return out, nil
	}

	start, end := DayBounds(day)
	var rows []struct {
		RestaurantID string
		Guests       int
	}
	err := q.DB(ctx).Model(&model.Booking{}).
		Select("restaurant_id, COALESCE(SUM(guests_number), 0) AS guests").
		Where("restaurant_id IN ?", restaurantIDs).
		Where("status = ?", model.BookingStatusApproved).
		Where("booking_time >= ? AND booking_time < ?", start, end).
		Group("restaurant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RestaurantID] = row.Guests
	}
	return out, nil
}

func (f BookingFilter) scope(db *gorm.DB) *gorm.DB {
	if f.UserID != "" {
		db = db.Where("bookings.user_id = ?", f.UserID)
	}
	if f.RestaurantID != "" {
		db = db.Where("bookings.restaurant_id = ?", f.RestaurantID)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("bookings.status IN ?", f.Statuses)
	}
	if f.From != nil {
		db = db.Where("bookings.booking_time >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("bookings.booking_time <= ?", *f.To)
	}
	return db
}

// ListForUser returns a user's bookings with a restaurant summary
func (q *BookingQueries) ListForUser(ctx context.Context, f BookingFilter) ([]model.Booking, int64, error) {
	var total int64
	if err := f.scope(q.DB(ctx).Model(&model.Booking{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []model.Booking
	err := WithPage(f.Page, f.Limit)(f.scope(q.DB(ctx).Model(&model.Booking{}))).
		Preload("Restaurant", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped().Select("id", "name", "banner_url", "brand_id")
		}).
		Preload("Restaurant.Brand").
		Order("bookings.booking_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListForRestaurant returns a restaurant's bookings with their users
func (q *BookingQueries) ListForRestaurant(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	var bookings []model.Booking
	err := f.scope(q.DB(ctx).Model(&model.Booking{})).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "first_name", "last_name", "email")
		}).
		Order("bookings.booking_time ASC").
		Find(&bookings).Error
	return bookings, err
}

// FindForUser returns a booking only when userID owns it
func (q *BookingQueries) FindForUser(ctx context.Context, id, userID string) (*model.Booking, error) {
	return q.FindOne(ctx,
		Where("id = ? AND user_id = ?", id, userID),
		WithPreload("Restaurant", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}),
		WithPreload("Restaurant.Brand"),
	)
}

// FindInBrand returns a booking only when its restaurant belongs to brandID
func (q *BookingQueries) FindInBrand(ctx context.Context, id, brandID string) (*model.Booking, error) {
	return q.FindOne(ctx,
		WithJoins("JOIN restaurants ON restaurants.id = bookings.restaurant_id AND restaurants.deleted_at IS NULL"),
		Where("bookings.id = ? AND restaurants.brand_id = ?", id, brandID),
		WithPreload("User"),
	)
}

// DailyTotals aggregates bookings per restaurant and UTC day over [from, to)
func (q *BookingQueries) DailyTotals(ctx context.Context, restaurantIDs []string, from, to time.Time) ([]DailyTotals, error) {
	if len(restaurantIDs) == 0 {
		return nil, nil
	}

	var rows []DailyTotals
	err := q.DB(ctx).Model(&model.Booking{}).
		Select(`restaurant_id,
			DATE(booking_time AT TIME ZONE 'UTC') AS date,
			COUNT(*) FILTER (WHERE status = ?) AS total_approved,
			COUNT(*) FILTER (WHERE status = ?) AS total_pending,
			COUNT(*) FILTER (WHERE status = ?) AS total_canceled_by_user,
			COUNT(*) FILTER (WHERE status = ?) AS total_canceled_by_admin,
			COALESCE(SUM(guests_number) FILTER (WHERE status IN ?), 0) AS total_guests`,
			model.BookingStatusApproved,
			model.BookingStatusPending,
			model.BookingStatusCanceledByUser,
			model.BookingStatusCanceledByAdmin,
			[]model.BookingStatus{model.BookingStatusApproved, model.BookingStatusConfirmed, model.BookingStatusPending},
		).
		Where("restaurant_id IN ?", restaurantIDs).
		Where("booking_time >= ? AND booking_time < ?", from, to).
		Group("restaurant_id, DATE(booking_time AT TIME ZONE 'UTC')").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}
