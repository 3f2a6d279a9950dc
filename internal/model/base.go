package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the columns shared by every entity
type Base struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns an application generated id
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// SoftDeletable lists the entities handled by the generic repository
type SoftDeletable interface {
	User | Admin | Brand | Restaurant | Address | Booking | RestaurantStaff | BookingsDailySummary
}

// All returns every model for auto-migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&Brand{},
		&Admin{},
		&Address{},
		&Restaurant{},
		&RestaurantStaff{},
		&Booking{},
		&BookingsDailySummary{},
	}
}
