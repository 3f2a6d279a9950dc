package b2b

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/handler/view"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/internal/service/geocode"
	"github.com/suteetoe/restb/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const msgRestaurantNotFound = "Restaurant not found"

// ListRestaurants handles GET /restaurant. Employees only see restaurants they staff.
func (h *Handler) ListRestaurants(c echo.Context) error {
	req, err := schema.Bound[schema.ListBrandRestaurantsRequest](c)
	if err != nil {
		return err
	}
	admin, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	brand, err := h.brands.FindByID(ctx, brandID)
	if err != nil {
		return err
	}

	filter := repository.RestaurantFilter{
		BrandID:   brandID,
		WithStaff: true,
		Page:      req.Page,
		Limit:     req.Limit,
	}
	if admin.Role == model.AdminRoleEmployee {
		filter.StaffAdminID = admin.ID
	}
	restaurants, total, err := h.restaurants.Search(ctx, filter)
	if err != nil {
		return err
	}

	out := make([]view.BrandRestaurant, 0, len(restaurants))
	for i := range restaurants {
		out = append(out, view.NewBrandRestaurant(&restaurants[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"brand":       view.NewBrand(brand),
		"restaurants": out,
		"pagination":  view.NewPagination(req.Page, req.Limit, total),
	})
}

// UpsertRestaurant handles PUT /restaurant. The address is geocoded before anything is written.
func (h *Handler) UpsertRestaurant(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.UpsertRestaurantRequest](c)
	if err != nil {
		return err
	}
	_, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	place, err := h.geocoder.SearchAddress(ctx, geocode.Address{
		Building: req.Address.Building,
		Street:   req.Address.Street,
		City:     req.Address.City,
		Postcode: req.Address.Postcode,
		Country:  req.Address.Country,
	})
	var appErr *apperror.AppError
	if place == nil && (err == nil || errors.As(err, &appErr)) {
		return apperror.BadRequest("Provided address was not recognized").Wrap(err)
	}
	if err != nil {
		return err
	}

	if req.RestaurantID != "" {
		existing, err := h.restaurants.FindInBrand(ctx, req.RestaurantID, brandID, false)
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(msgRestaurantNotFound)
		}
		if err != nil {
			return err
		}

		restaurant := map[string]interface{}{
			"name":                       req.Name,
			"description":                req.Description,
			"banner_url":                 req.BannerURL,
			"photos_url":                 datatypes.JSONSlice[string](req.PhotosURL),
			"categories":                 datatypes.JSONSlice[model.RestaurantCategory](req.CategoryList()),
			"auto_approved_bookings_num": req.AutoApprovedBookingsNum,
			"time_from":                  req.TimeFrom,
			"time_to":                    req.TimeTo,
		}
		address := map[string]interface{}{
			"building":  req.Address.Building,
			"street":    req.Address.Street,
			"city":      req.Address.City,
			"postcode":  req.Address.Postcode,
			"country":   req.Address.Country,
			"latitude":  place.Latitude,
			"longitude": place.Longitude,
		}
		if err := h.restaurants.UpdateWithAddress(ctx, existing.ID, existing.AddressID, restaurant, address); err != nil {
			return err
		}

		log.Info("Restaurant updated", zap.String("restaurant_id", existing.ID))
		return c.JSON(http.StatusOK, echo.Map{
			"restaurant": view.IDOnly{ID: existing.ID},
			"message":    "Restaurant was updated successfully",
		})
	}

	restaurant := &model.Restaurant{
		Name:                    req.Name,
		Description:             req.Description,
		BannerURL:               req.BannerURL,
		PhotosURL:               req.PhotosURL,
		Categories:              req.CategoryList(),
		AutoApprovedBookingsNum: req.AutoApprovedBookingsNum,
		TimeFrom:                req.TimeFrom,
		TimeTo:                  req.TimeTo,
		BrandID:                 brandID,
	}
	address := &model.Address{
		Building:  req.Address.Building,
		Street:    req.Address.Street,
		City:      req.Address.City,
		Postcode:  req.Address.Postcode,
		Country:   req.Address.Country,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
	}
	if err := h.restaurants.CreateWithAddress(ctx, restaurant, address); err != nil {
		return err
	}

	log.Info("Restaurant created",
		zap.String("restaurant_id", restaurant.ID),
		zap.String("brand_id", brandID))
	return c.JSON(http.StatusOK, echo.Map{
		"restaurant": view.IDOnly{ID: restaurant.ID},
		"message":    "Restaurant was created successfully.",
	})
}

// DeleteRestaurant handles DELETE /restaurant/:restaurantID
func (h *Handler) DeleteRestaurant(c echo.Context) error {
	req, err := schema.Bound[schema.RestaurantIDRequest](c)
	if err != nil {
		return err
	}
	_, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.restaurants.FindInBrand(ctx, req.RestaurantID, brandID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(msgRestaurantNotFound)
		}
		return err
	}
	if err := h.restaurants.SoftDelete(ctx, req.RestaurantID); err != nil {
		return err
	}

	logger.FromEcho(c).Info("Restaurant deleted", zap.String("restaurant_id", req.RestaurantID))
	return c.JSON(http.StatusOK, echo.Map{
		"restaurant": view.IDOnly{ID: req.RestaurantID},
		"message":    "Restaurant was deleted successfully.",
	})
}

// UpdateStaff handles PUT /restaurant/:restaurantID/staff
func (h *Handler) UpdateStaff(c echo.Context) error {
	req, err := schema.Bound[schema.UpdateStaffRequest](c)
	if err != nil {
		return err
	}
	_, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.restaurants.FindInBrand(ctx, req.RestaurantID, brandID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(msgRestaurantNotFound)
		}
		return err
	}

	ids := unique(req.AdminIDs)
	employees, err := h.admins.CountEmployeesInBrand(ctx, ids, brandID)
	if err != nil {
		return err
	}
	if employees != int64(len(ids)) {
		return apperror.BadRequest("Staff must be employees of the brand")
	}
	if err := h.restaurants.ReplaceStaff(ctx, req.RestaurantID, ids); err != nil {
		return err
	}

	restaurant, err := h.restaurants.FindInBrand(ctx, req.RestaurantID, brandID, true)
	if err != nil {
		return err
	}
	logger.FromEcho(c).Info("Restaurant staff replaced",
		zap.String("restaurant_id", req.RestaurantID),
		zap.Int("staff", len(ids)))
	return c.JSON(http.StatusOK, echo.Map{
		"restaurant": view.NewBrandRestaurant(restaurant),
		"message":    "Restaurant staff was updated successfully",
	})
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
