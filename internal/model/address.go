package model

// Address is a geocoded restaurant location
type Address struct {
	Base
	Building  string  `json:"building" gorm:"type:varchar(100);not null"`
	Street    string  `json:"street" gorm:"type:varchar(255);not null"`
	City      string  `json:"city" gorm:"type:varchar(100);not null"`
	Postcode  string  `json:"postcode" gorm:"type:varchar(20);not null"`
	Country   string  `json:"country" gorm:"type:varchar(100);not null"`
	Latitude  float64 `json:"latitude" gorm:"type:decimal(9,6);not null;index:idx_address_coords"`
	Longitude float64 `json:"longitude" gorm:"type:decimal(9,6);not null;index:idx_address_coords"`
}
