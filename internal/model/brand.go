package model

// Brand is the tenant owning restaurants and admins
type Brand struct {
	Base
	Name    string  `json:"name" gorm:"type:varchar(255);not null"`
	LogoURL *string `json:"logoURL" gorm:"type:text"`

	Restaurants []Restaurant `json:"-" gorm:"foreignKey:BrandID"`
	Admins      []Admin      `json:"-" gorm:"foreignKey:BrandID"`
}
