package b2c

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/handler/view"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/pkg/logger"
	"go.uber.org/zap"
)

// kilometers per degree of latitude
const kmPerDegree = 111.0

// BoundingBox returns the rectangle spanning radiusKm around a point
func BoundingBox(lat, lng float64, radiusKm int) *repository.BoundingBox {
	latDelta := float64(radiusKm) / kmPerDegree
	lngDelta := float64(radiusKm) / (kmPerDegree * math.Cos(lat*math.Pi/180))
	return &repository.BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - math.Abs(lngDelta),
		MaxLng: lng + math.Abs(lngDelta),
	}
}

func (h *Handler) availability(ctx context.Context, restaurants []model.Restaurant, date time.Time) ([]view.PublicRestaurant, error) {
	ids := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		ids = append(ids, r.ID)
	}
	approved, err := h.bookings.ApprovedGuests(ctx, ids, date)
	if err != nil {
		return nil, err
	}

	out := make([]view.PublicRestaurant, 0, len(restaurants))
	for i := range restaurants {
		r := &restaurants[i]
		out = append(out, view.NewPublicRestaurant(r, view.NewAvailability(r, date, approved[r.ID])))
	}
	return out, nil
}

// GetRestaurant handles GET /restaurant/:restaurantID
func (h *Handler) GetRestaurant(c echo.Context) error {
	req, err := schema.Bound[schema.GetRestaurantRequest](c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	restaurant, err := h.restaurants.FindDetailed(ctx, req.RestaurantID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Restaurant was not found")
	}
	if err != nil {
		return err
	}

	out, err := h.availability(ctx, []model.Restaurant{*restaurant}, req.Date.Time)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out[0])
}

// ListRestaurants handles GET /restaurant
func (h *Handler) ListRestaurants(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.ListRestaurantsRequest](c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	filter := repository.RestaurantFilter{
		Categories: req.CategoryList(),
		Page:       req.Page,
		Limit:      req.Limit,
	}

	if req.Search != "" {
		place, err := h.geocoder.Search(ctx, req.Search)
		if err != nil {
			return err
		}
		if place == nil {
			return apperror.NotFound("Could not find restaurants in given area")
		}
		filter.Box = BoundingBox(place.Latitude, place.Longitude, req.Radius)
		log.Debug("Searching restaurants around place",
			zap.String("place", place.DisplayName),
			zap.Int("radius_km", req.Radius))
	}

	if req.BrandID != "" {
		if _, err := h.brands.FindByID(ctx, req.BrandID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.NotFound("Brand doesn't exist")
			}
			return err
		}
		filter.BrandID = req.BrandID
	}

	restaurants, total, err := h.restaurants.Search(ctx, filter)
	if err != nil {
		return err
	}
	out, err := h.availability(ctx, restaurants, req.Date.Time)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"restaurants": out,
		"pagination":  view.NewPagination(req.Page, req.Limit, total),
	})
}
