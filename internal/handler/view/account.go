package view

import (
	"time"

	"github.com/suteetoe/restb/internal/model"
)

// UserProfile is the full consumer profile
type UserProfile struct {
	ID            string         `json:"id"`
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	Email         string         `json:"email"`
	EmailVerified bool           `json:"emailVerified"`
	Type          model.UserType `json:"type"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func NewUserProfile(u *model.User) UserProfile {
	return UserProfile{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Type:          u.Type,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// UserSummary identifies the consumer behind a booking
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func NewUserSummary(u *model.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// AdminProfile is the full business account profile
type AdminProfile struct {
	ID            string          `json:"id"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Email         string          `json:"email"`
	EmailVerified bool            `json:"emailVerified"`
	Phone         string          `json:"phone"`
	AvatarURL     *string         `json:"avatarURL"`
	Role          model.AdminRole `json:"role"`
	BrandID       *string         `json:"brandID"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func NewAdminProfile(a *model.Admin) AdminProfile {
	return AdminProfile{
		ID:            a.ID,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         a.Email,
		EmailVerified: a.EmailVerified,
		Phone:         a.Phone,
		AvatarURL:     a.AvatarURL,
		Role:          a.Role,
		BrandID:       a.BrandID,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AdminSummary lists a staff member
type AdminSummary struct {
	ID        string          `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Role      model.AdminRole `json:"role"`
}

func NewAdminSummary(a *model.Admin) AdminSummary {
	return AdminSummary{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Email: a.Email, Role: a.Role}
}

// AdminSession is returned by every b2b login flow
type AdminSession struct {
	ID    string          `json:"id"`
	Token string          `json:"token"`
	Role  model.AdminRole `json:"role"`
}
