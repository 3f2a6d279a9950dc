package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/suteetoe/restb/internal/model"
	"gorm.io/gorm"
)

// BoundingBox is a latitude/longitude rectangle
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// RestaurantFilter narrows a restaurant listing
type RestaurantFilter struct {
	Box          *BoundingBox
	BrandID      string
	Categories   []model.RestaurantCategory
	StaffAdminID string // only restaurants this admin is assigned to
	WithStaff    bool
	Page         int
	Limit        int

	// BookingStatuses keeps restaurants holding a booking in one of these
	// statuses at or after BookingsFrom
	BookingStatuses []model.BookingStatus
	BookingsFrom    time.Time
}

// RestaurantQueries holds restaurant reads and the restaurant/address writes
type RestaurantQueries struct {
	*Repository[model.Restaurant]
	addresses *Repository[model.Address]
	staff     *Repository[model.RestaurantStaff]
}

func NewRestaurantQueries(db *gorm.DB) *RestaurantQueries {
	return &RestaurantQueries{
		Repository: New[model.Restaurant](db),
		addresses:  New[model.Address](db),
		staff:      New[model.RestaurantStaff](db),
	}
}

// FindDetailed loads a restaurant with brand and address
func (q *RestaurantQueries) FindDetailed(ctx context.Context, id string) (*model.Restaurant, error) {
	return q.FindByID(ctx, id, WithPreload("Brand"), WithPreload("Address"))
}

// FindInBrand loads a restaurant only when it belongs to brandID
func (q *RestaurantQueries) FindInBrand(ctx context.Context, id, brandID string, withStaff bool) (*model.Restaurant, error) {
	opts := []FindOption{
		Where("restaurants.id = ? AND restaurants.brand_id = ?", id, brandID),
		WithPreload("Brand"),
		WithPreload("Address"),
	}
	if withStaff {
		opts = append(opts, WithPreload("Staff.Admin"))
	}
	return q.FindOne(ctx, opts...)
}

func (f RestaurantFilter) scope(db *gorm.DB) (*gorm.DB, error) {
	if f.Box != nil {
		db = db.Joins("JOIN addresses ON addresses.id = restaurants.address_id AND addresses.deleted_at IS NULL").
			Where("addresses.latitude BETWEEN ? AND ?", f.Box.MinLat, f.Box.MaxLat).
			Where("addresses.longitude BETWEEN ? AND ?", f.Box.MinLng, f.Box.MaxLng)
	}
	if f.BrandID != "" {
		db = db.Where("restaurants.brand_id = ?", f.BrandID)
	}
	if len(f.Categories) > 0 {
		raw, err := json.Marshal(f.Categories)
		if err != nil {
			return nil, fmt.Errorf("encode categories: %w", err)
		}
		db = db.Where("restaurants.categories @> ?::jsonb", string(raw))
	}
	if f.StaffAdminID != "" {
		db = db.Where("restaurants.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&model.RestaurantStaff{}).
				Select("restaurant_id").
				Where("admin_id = ?", f.StaffAdminID))
	}
	if len(f.BookingStatuses) > 0 {
		db = db.Where("restaurants.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&model.Booking{}).
				Select("restaurant_id").
				Where("status IN ? AND booking_time >= ?", f.BookingStatuses, f.BookingsFrom))
	}
	return db, nil
}

// Search lists restaurants ordered by name and returns the full matching count
func (q *RestaurantQueries) Search(ctx context.Context, f RestaurantFilter) ([]model.Restaurant, int64, error) {
	counted, err := f.scope(q.DB(ctx).Model(&model.Restaurant{}))
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listed, err := f.scope(q.DB(ctx).Model(&model.Restaurant{}))
	if err != nil {
		return nil, 0, err
	}
	listed = listed.Preload("Brand").Preload("Address")
	if f.WithStaff {
		listed = listed.Preload("Staff.Admin")
	}

	var restaurants []model.Restaurant
	err = WithPage(f.Page, f.Limit)(listed).
		Order("restaurants.name ASC").
		Find(&restaurants).Error
	if err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

// IDsInBrand returns the ids of every live restaurant of brandID
func (q *RestaurantQueries) IDsInBrand(ctx context.Context, brandID string) ([]string, error) {
	var ids []string
	err := q.DB(ctx).Model(&model.Restaurant{}).Where("brand_id = ?", brandID).Pluck("id", &ids).Error
	return ids, err
}

// ListInBrand returns id and name of every live restaurant of brandID
func (q *RestaurantQueries) ListInBrand(ctx context.Context, brandID string) ([]model.Restaurant, error) {
	return q.Find(ctx,
		WithSelect("id", "name"),
		Where("brand_id = ?", brandID),
		WithOrder("name ASC"),
	)
}

// AllIDs returns the ids of every live restaurant
func (q *RestaurantQueries) AllIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := q.DB(ctx).Model(&model.Restaurant{}).Pluck("id", &ids).Error
	return ids, err
}

// CreateWithAddress inserts the address and then the restaurant in one transaction
func (q *RestaurantQueries) CreateWithAddress(ctx context.Context, restaurant *model.Restaurant, address *model.Address) error {
	return q.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := q.addresses.WithTx(tx).Create(ctx, address); err != nil {
			return err
		}
		restaurant.AddressID = address.ID
		return q.WithTx(tx).Create(ctx, restaurant)
	})
}

// UpdateWithAddress updates a restaurant and its address in one transaction
func (q *RestaurantQueries) UpdateWithAddress(ctx context.Context, restaurantID, addressID string, restaurant, address map[string]interface{}) error {
	return q.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := q.addresses.WithTx(tx).Update(ctx, addressID, address); err != nil {
			return fmt.Errorf("update address: %w", err)
		}
		if err := q.WithTx(tx).Update(ctx, restaurantID, restaurant); err != nil {
			return fmt.Errorf("update restaurant: %w", err)
		}
		return nil
	})
}

// ReplaceStaff swaps the restaurant's staff for adminIDs
func (q *RestaurantQueries) ReplaceStaff(ctx context.Context, restaurantID string, adminIDs []string) error {
	return q.DB(ctx).Transaction(func(tx *gorm.DB) error {
		// join rows are removed outright so a pair can be re-added later
		if err := tx.Unscoped().Where("restaurant_id = ?", restaurantID).Delete(&model.RestaurantStaff{}).Error; err != nil {
			return err
		}
		if len(adminIDs) == 0 {
			return nil
		}
		rows := make([]model.RestaurantStaff, 0, len(adminIDs))
		for _, id := range adminIDs {
			rows = append(rows, model.RestaurantStaff{AdminID: id, RestaurantID: restaurantID})
		}
		return tx.Create(&rows).Error
	})
}
