package model

import "gorm.io/datatypes"

// RestaurantCategory is a cuisine tag
type RestaurantCategory string

const (
	CategoryBBQ      RestaurantCategory = "BBQ"
	CategoryItalian  RestaurantCategory = "Italian"
	CategoryJapanese RestaurantCategory = "Japanese"
	CategoryChinese  RestaurantCategory = "Chinese"
	CategoryIndian   RestaurantCategory = "Indian"
	CategoryMexican  RestaurantCategory = "Mexican"
	CategoryFrench   RestaurantCategory = "French"
	CategoryVegan    RestaurantCategory = "Vegan"
	CategorySeafood  RestaurantCategory = "Seafood"
	CategoryFastFood RestaurantCategory = "FastFood"
	CategoryCafe     RestaurantCategory = "Cafe"
	CategoryBar      RestaurantCategory = "Bar"
)

// Restaurant belongs to exactly one brand and has one address
type Restaurant struct {
	Base
	Name                    string                                  `json:"name" gorm:"type:varchar(255);not null;index"`
	Description             *string                                 `json:"description,omitempty" gorm:"type:text"`
	BannerURL               string                                  `json:"bannerURL" gorm:"type:text"`
	PhotosURL               datatypes.JSONSlice[string]             `json:"photosURL"`
	TimeFrom                string                                  `json:"timeFrom" gorm:"type:varchar(5);not null"` // HH:mm
	TimeTo                  string                                  `json:"timeTo" gorm:"type:varchar(5);not null"`   // HH:mm
	Categories              datatypes.JSONSlice[RestaurantCategory] `json:"categories"`
	AutoApprovedBookingsNum int                                     `json:"autoApprovedBookingsNum" gorm:"not null;default:0"`
	BrandID                 string                                  `json:"-" gorm:"type:uuid;not null;index"`
	AddressID               string                                  `json:"-" gorm:"type:uuid;not null;uniqueIndex"`

	Brand   *Brand            `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Address *Address          `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	Staff   []RestaurantStaff `json:"-" gorm:"foreignKey:RestaurantID"`
}

// RestaurantStaff assigns an employee to a restaurant
type RestaurantStaff struct {
	Base
	AdminID      string `json:"adminID" gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_staff_pair"`
	RestaurantID string `json:"restaurantID" gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_staff_pair"`

	Admin *Admin `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
}

// TableName keeps the join table name singular
func (RestaurantStaff) TableName() string {
	return "restaurant_staff"
}
