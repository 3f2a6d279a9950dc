package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories sharing one connection
type Store struct {
	db *gorm.DB

	Users       *UserQueries
	Admins      *AdminQueries
	Brands      *BrandQueries
	Restaurants *RestaurantQueries
	Bookings    *BookingQueries
	Summaries   *SummaryQueries
}

// NewStore wires every repository over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserQueries(db),
		Admins:      NewAdminQueries(db),
		Brands:      NewBrandQueries(db),
		Restaurants: NewRestaurantQueries(db),
		Bookings:    NewBookingQueries(db),
		Summaries:   NewSummaryQueries(db),
	}
}

// Transaction runs fn with a store bound to a single transaction
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the connection for health checks and shutdown
func (s *Store) DB() *gorm.DB {
	return s.db
}
