package model

import (
	"time"

	"gorm.io/datatypes"
)

// BookingStatus tracks a booking through its lifecycle
type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "Pending"
	BookingStatusConfirmed       BookingStatus = "Confirmed"
	BookingStatusApproved        BookingStatus = "Approved"
	BookingStatusCanceledByUser  BookingStatus = "CanceledByUser"
	BookingStatusCanceledByAdmin BookingStatus = "CanceledByAdmin"
)

// AuthorType identifies who wrote a discussion item
type AuthorType string

const (
	AuthorTypeUser  AuthorType = "user"
	AuthorTypeAdmin AuthorType = "admin"
)

// DiscussionItem is one message in a booking conversation
type DiscussionItem struct {
	AuthorID   string     `json:"authorID"`
	AuthorType AuthorType `json:"authorType"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Booking is a reservation at a restaurant
type Booking struct {
	Base
	GuestsNumber int                                 `json:"guestsNumber" gorm:"not null"`
	BookingTime  time.Time                           `json:"bookingTime" gorm:"not null;index"`
	Status       BookingStatus                       `json:"status" gorm:"type:varchar(20);not null;default:'Pending';index"`
	Discussion   datatypes.JSONSlice[DiscussionItem] `json:"discussion"`
	UserID       *string                             `json:"-" gorm:"type:uuid;index"`
	RestaurantID string                              `json:"-" gorm:"type:uuid;not null;index"`

	User       *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Restaurant *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
}

// BookingsDailySummary is the per-day roll-up of a restaurant's bookings
type BookingsDailySummary struct {
	Base
	RestaurantID         string    `json:"restaurantID" gorm:"type:uuid;not null;uniqueIndex:idx_summary_restaurant_date"`
	Date                 time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_summary_restaurant_date"`
	TotalApproved        int       `json:"totalApproved" gorm:"not null;default:0"`
	TotalPending         int       `json:"totalPending" gorm:"not null;default:0"`
	TotalCanceledByUser  int       `json:"totalCanceledByUser" gorm:"not null;default:0"`
	TotalCanceledByAdmin int       `json:"totalCanceledByAdmin" gorm:"not null;default:0"`
	TotalGuests          int       `json:"totalGuests" gorm:"not null;default:0"`
}
