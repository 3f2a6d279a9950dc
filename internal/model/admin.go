package model

// AdminRole gates what a business account may change
type AdminRole string

const (
	AdminRoleAdmin    AdminRole = "Admin"
	AdminRoleEmployee AdminRole = "Employee"
)

// Admin represents a business account belonging to a brand
type Admin struct {
	Base
	FirstName     string    `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName      string    `json:"lastName" gorm:"type:varchar(100);not null"`
	Email         string    `json:"email" gorm:"type:varchar(255);index:idx_admins_email,unique,where:deleted_at IS NULL;not null"`
	EmailVerified bool      `json:"emailVerified" gorm:"default:false"`
	Password      string    `json:"-" gorm:"type:varchar(255);not null"`
	Phone         string    `json:"phone" gorm:"type:varchar(30)"`
	AvatarURL     *string   `json:"avatarURL" gorm:"type:text"`
	Role          AdminRole `json:"role" gorm:"type:varchar(20);not null;default:'Admin'"`
	BrandID       *string   `json:"brandID" gorm:"type:uuid;index"`

	Brand *Brand `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
}

// HasRole reports whether the admin holds one of roles
func (a *Admin) HasRole(roles ...AdminRole) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// BrandIDValue returns the brand id or an empty string
func (a *Admin) BrandIDValue() string {
	if a.BrandID == nil {
		return ""
	}
	return *a.BrandID
}
