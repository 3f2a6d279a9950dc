package repository

import (
	"context"
	"time"

	"github.com/suteetoe/restb/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryQueries reads and writes the daily booking roll-up
type SummaryQueries struct {
	*Repository[model.BookingsDailySummary]
}

func NewSummaryQueries(db *gorm.DB) *SummaryQueries {
	return &SummaryQueries{Repository: New[model.BookingsDailySummary](db)}
}

// Upsert writes rows, replacing the totals of existing (restaurant, date) pairs
func (q *SummaryQueries) Upsert(ctx context.Context, rows []model.BookingsDailySummary) error {
	if len(rows) == 0 {
		return nil
	}
	return q.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "restaurant_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_approved",
			"total_pending",
			"total_canceled_by_user",
			"total_canceled_by_admin",
			"total_guests",
			"updated_at",
		}),
	}).Create(&rows).Error
}

// InRange returns summaries of restaurantIDs with from <= date < to; a zero to is open-ended
func (q *SummaryQueries) InRange(ctx context.Context, restaurantIDs []string, from, to time.Time) ([]model.BookingsDailySummary, error) {
	if len(restaurantIDs) == 0 {
		return nil, nil
	}
	opts := []FindOption{
		Where("restaurant_id IN ?", restaurantIDs),
		Where("date >= ?", from),
		WithOrder("date ASC"),
	}
	if !to.IsZero() {
		opts = append(opts, Where("date < ?", to))
	}
	return q.Find(ctx, opts...)
}
