package b2b

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/handler/view"
	"github.com/suteetoe/restb/internal/middleware"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/internal/service/email"
	"github.com/suteetoe/restb/internal/service/summary"
	"github.com/suteetoe/restb/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ListBookings handles GET /booking: the brand's restaurants with their upcoming daily summaries
func (h *Handler) ListBookings(c echo.Context) error {
	req, err := schema.Bound[schema.ListBrandBookingsRequest](c)
	if err != nil {
		return err
	}
	_, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	brand, err := h.brands.FindByID(ctx, brandID)
	if err != nil {
		return err
	}

	today := summary.Day(h.now())
	filter := repository.RestaurantFilter{
		BrandID:         brandID,
		WithStaff:       true,
		BookingStatuses: req.StatusList(),
		BookingsFrom:    today,
		Page:            req.Page,
		Limit:           req.Limit,
	}
	restaurants, total, err := h.restaurants.Search(ctx, filter)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		ids = append(ids, r.ID)
	}
	rows, err := h.upcomingSummaries(ctx, ids, today)
	if err != nil {
		return err
	}

	out := make([]view.RestaurantSummaries, 0, len(restaurants))
	for i := range restaurants {
		r := &restaurants[i]
		out = append(out, view.RestaurantSummaries{
			BrandRestaurant:        view.NewBrandRestaurant(r),
			BookingsDailySummaries: view.NewSummaries(rows[r.ID]),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"brand":       view.NewBrand(brand),
		"restaurants": out,
		"pagination":  view.NewPagination(req.Page, req.Limit, total),
	})
}

func (h *Handler) upcomingSummaries(ctx context.Context, ids []string, from time.Time) (map[string][]model.BookingsDailySummary, error) {
	out := make(map[string][]model.BookingsDailySummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := h.summaries.InRange(ctx, ids, from, time.Time{})
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RestaurantID] = append(out[row.RestaurantID], row)
	}
	return out, nil
}

// RestaurantBookings handles GET /booking/:restaurantID
func (h *Handler) RestaurantBookings(c echo.Context) error {
	req, err := schema.Bound[schema.ListRestaurantBookingsRequest](c)
	if err != nil {
		return err
	}
	_, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	restaurant, err := h.restaurants.FindInBrand(ctx, req.RestaurantID, brandID, true)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(msgRestaurantNotFound)
	}
	if err != nil {
		return err
	}

	bookings, err := h.bookings.ListForRestaurant(ctx, repository.BookingFilter{
		RestaurantID: restaurant.ID,
		Statuses:     req.StatusList(),
		From:         &req.DateFrom.Time,
		To:           &req.DateTo.Time,
	})
	if err != nil {
		return err
	}

	out := make([]view.RestaurantBooking, 0, len(bookings))
	for i := range bookings {
		out = append(out, view.NewRestaurantBooking(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"restaurant": view.NewBrandRestaurant(restaurant),
		"bookings":   out,
	})
}

// UpdateBooking handles PATCH /booking/:bookingID for both admins and the booking's user.
// A user may only cancel; an admin may set any status except the user's cancellation.
func (h *Handler) UpdateBooking(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.UpdateBookingRequest](c)
	if err != nil {
		return err
	}
	p, err := auth.PrincipalFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	status := model.BookingStatus(req.Status)

	var (
		booking    *model.Booking
		restaurant *model.Restaurant
		author     model.AuthorType
	)
	switch p.Kind {
	case auth.KindUser:
		if status != model.BookingStatusCanceledByUser {
			return apperror.Forbidden(middleware.PermissionDenied)
		}
		booking, err = h.bookings.FindForUser(ctx, req.BookingID, p.User.ID)
		if err == nil {
			booking.User = p.User
			restaurant = booking.Restaurant
		}
		author = model.AuthorTypeUser
	case auth.KindAdmin:
		if status == model.BookingStatusCanceledByUser {
			return apperror.Forbidden(middleware.PermissionDenied)
		}
		brandID := p.Admin.BrandIDValue()
		booking, err = h.bookings.FindInBrand(ctx, req.BookingID, brandID)
		if err == nil {
			restaurant, err = h.restaurants.FindInBrand(ctx, booking.RestaurantID, brandID, false)
		}
		author = model.AuthorTypeAdmin
	default:
		return apperror.Forbidden(middleware.PermissionDenied)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Booking was not found")
	}
	if err != nil {
		return err
	}

	changes := map[string]interface{}{"status": status}
	if req.Discussion != nil {
		discussion := append(datatypes.JSONSlice[model.DiscussionItem]{}, booking.Discussion...)
		discussion = append(discussion, model.DiscussionItem{
			AuthorID:   p.ID(),
			AuthorType: author,
			Message:    req.Discussion.Message,
			CreatedAt:  h.now(),
		})
		changes["discussion"] = discussion
	}
	if err := h.bookings.Update(ctx, booking.ID, changes); err != nil {
		return err
	}

	if booking.User != nil {
		data := email.BookingUpdatedData{
			FirstName:   booking.User.FirstName,
			BookingTime: booking.BookingTime,
			Status:      string(status),
		}
		if restaurant != nil {
			data.RestaurantName = restaurant.Name
		}
		if req.Discussion != nil {
			data.Message = req.Discussion.Message
		}
		h.mailer.Dispatch(ctx, email.Email{Type: email.TypeBookingUpdated, To: booking.User.Email, Data: data})
	}

	log.Info("Booking updated",
		zap.String("booking_id", booking.ID),
		zap.String("status", string(status)),
		zap.String("author", string(author)))
	return c.JSON(http.StatusOK, echo.Map{
		"booking": view.IDOnly{ID: booking.ID},
		"message": "Booking was updated successfully",
	})
}
