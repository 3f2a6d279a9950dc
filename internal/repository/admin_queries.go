package repository

import (
	"context"
	"strings"

	"github.com/suteetoe/restb/internal/model"
	"gorm.io/gorm"
)

// AdminQueries adds business account lookups to the generic repository
type AdminQueries struct {
	*Repository[model.Admin]
}

func NewAdminQueries(db *gorm.DB) *AdminQueries {
	return &AdminQueries{Repository: New[model.Admin](db)}
}

// FindByEmail returns the live admin with email
func (q *AdminQueries) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return q.FindOne(ctx, Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

// FindInBrand returns an admin only when it belongs to brandID
func (q *AdminQueries) FindInBrand(ctx context.Context, id, brandID string) (*model.Admin, error) {
	return q.FindOne(ctx, Where("id = ? AND brand_id = ?", id, brandID))
}

// CountEmployeesInBrand counts how many of ids are employees of brandID
func (q *AdminQueries) CountEmployeesInBrand(ctx context.Context, ids []string, brandID string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return q.Count(ctx, Where("id IN ? AND brand_id = ? AND role = ?", ids, brandID, model.AdminRoleEmployee))
}

// CreateWithBrand registers a first admin together with its brand
func (q *AdminQueries) CreateWithBrand(ctx context.Context, admin *model.Admin, brand *model.Brand) error {
	err := q.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(brand).Error; err != nil {
			return err
		}
		admin.BrandID = &brand.ID
		return tx.Create(admin).Error
	})
	return translate(err)
}
