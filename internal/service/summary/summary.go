package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"go.uber.org/zap"
)

const dateKey = "2006-01-02"

// RestaurantLister lists the restaurants to roll up
type RestaurantLister interface {
	AllIDs(ctx context.Context) ([]string, error)
}

// BookingAggregator computes per-day totals from bookings
type BookingAggregator interface {
	DailyTotals(ctx context.Context, restaurantIDs []string, from, to time.Time) ([]repository.DailyTotals, error)
}

// SummaryStore persists the roll-up
type SummaryStore interface {
	Upsert(ctx context.Context, rows []model.BookingsDailySummary) error
	InRange(ctx context.Context, restaurantIDs []string, from, to time.Time) ([]model.BookingsDailySummary, error)
}

// Roller maintains BookingsDailySummary rows
type Roller struct {
	restaurants RestaurantLister
	bookings    BookingAggregator
	summaries   SummaryStore
	now         func() time.Time
	log         *zap.Logger
}

func NewRoller(restaurants RestaurantLister, bookings BookingAggregator, summaries SummaryStore, log *zap.Logger) *Roller {
	return &Roller{
		restaurants: restaurants,
		bookings:    bookings,
		summaries:   summaries,
		now:         time.Now,
		log:         log,
	}
}

// Day truncates t to its UTC calendar day
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Run upserts today's and tomorrow's summaries of every restaurant
func (r *Roller) Run(ctx context.Context) error {
	ids, err := r.restaurants.AllIDs(ctx)
	if err != nil {
		return fmt.Errorf("list restaurants: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	from := Day(r.now())
	rows, err := r.Compute(ctx, ids, from, from.AddDate(0, 0, 2))
	if err != nil {
		return err
	}
	if err := r.summaries.Upsert(ctx, rows); err != nil {
		return fmt.Errorf("upsert summaries: %w", err)
	}

	r.log.Info("Booking summaries rolled up",
		zap.Int("restaurants", len(ids)),
		zap.Int("rows", len(rows)))
	return nil
}

// Compute builds one summary per restaurant and day of [from, to) from bookings
func (r *Roller) Compute(ctx context.Context, restaurantIDs []string, from, to time.Time) ([]model.BookingsDailySummary, error) {
	totals, err := r.bookings.DailyTotals(ctx, restaurantIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate bookings: %w", err)
	}

	byKey := make(map[string]repository.DailyTotals, len(totals))
	for _, t := range totals {
		byKey[t.RestaurantID+"|"+Day(t.Date).Format(dateKey)] = t
	}

	var rows []model.BookingsDailySummary
	for _, id := range restaurantIDs {
		for day := Day(from); day.Before(to); day = day.AddDate(0, 0, 1) {
			t := byKey[id+"|"+day.Format(dateKey)]
			rows = append(rows, model.BookingsDailySummary{
				RestaurantID:         id,
				Date:                 day,
				TotalApproved:        t.TotalApproved,
				TotalPending:         t.TotalPending,
				TotalCanceledByUser:  t.TotalCanceledByUser,
				TotalCanceledByAdmin: t.TotalCanceledByAdmin,
				TotalGuests:          t.TotalGuests,
			})
		}
	}
	return rows, nil
}

// Range returns per-restaurant summaries for every day of [from, to).
// Stored rows are used where present and the remaining days are computed from bookings.
func (r *Roller) Range(ctx context.Context, restaurantIDs []string, from, to time.Time) (map[string][]model.BookingsDailySummary, error) {
	from, to = Day(from), Day(to)
	out := make(map[string][]model.BookingsDailySummary, len(restaurantIDs))
	if len(restaurantIDs) == 0 || !from.Before(to) {
		return out, nil
	}

	stored, err := r.summaries.InRange(ctx, restaurantIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}
	have := make(map[string]model.BookingsDailySummary, len(stored))
	for _, s := range stored {
		have[s.RestaurantID+"|"+Day(s.Date).Format(dateKey)] = s
	}

	days := int(to.Sub(from).Hours() / 24)
	var computed map[string]model.BookingsDailySummary
	if len(stored) < len(restaurantIDs)*days {
		rows, err := r.Compute(ctx, restaurantIDs, from, to)
		if err != nil {
			return nil, err
		}
		computed = make(map[string]model.BookingsDailySummary, len(rows))
		for _, row := range rows {
			computed[row.RestaurantID+"|"+row.Date.Format(dateKey)] = row
		}
	}

	for _, id := range restaurantIDs {
		list := make([]model.BookingsDailySummary, 0, days)
		for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
			key := id + "|" + day.Format(dateKey)
			if s, ok := have[key]; ok {
				list = append(list, s)
			} else {
				list = append(list, computed[key])
			}
		}
		out[id] = list
	}
	return out, nil
}
