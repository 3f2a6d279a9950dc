package model

// UserType classifies consumer accounts
type UserType string

const UserTypeDefault UserType = "Default"

// User represents a consumer account
type User struct {
	Base
	FirstName       string   `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName        string   `json:"lastName" gorm:"type:varchar(100);not null"`
	Email           string   `json:"email" gorm:"type:varchar(255);index:idx_users_email,unique,where:deleted_at IS NULL;not null"`
	EmailVerified   bool     `json:"emailVerified" gorm:"default:false"`
	Password        *string  `json:"-" gorm:"type:varchar(255)"` // nil for Google-only accounts
	Type            UserType `json:"type" gorm:"type:varchar(20);not null;default:'Default'"`
	GoogleProfileID *string  `json:"-" gorm:"type:varchar(100);index"`
}
