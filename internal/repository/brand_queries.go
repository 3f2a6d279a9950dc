package repository

import (
	"github.com/suteetoe/restb/internal/model"
	"gorm.io/gorm"
)

// BrandQueries is the brand repository
type BrandQueries struct {
	*Repository[model.Brand]
}

func NewBrandQueries(db *gorm.DB) *BrandQueries {
	return &BrandQueries{Repository: New[model.Brand](db)}
}
