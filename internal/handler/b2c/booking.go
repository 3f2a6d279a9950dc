package b2c

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/handler/view"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/pkg/logger"
	"github.com/suteetoe/restb/prometheus"
	"go.uber.org/zap"
)

// withinOpeningHours compares the time of day in the booking's own offset
func withinOpeningHours(r *model.Restaurant, minutes int) bool {
	from, ok := schema.MinutesOfDay(r.TimeFrom)
	if !ok {
		return false
	}
	to, ok := schema.MinutesOfDay(r.TimeTo)
	if !ok {
		return false
	}
	return from <= minutes && minutes <= to
}

// CreateBooking handles POST /booking
func (h *Handler) CreateBooking(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.CreateBookingRequest](c)
	if err != nil {
		return err
	}
	user, _, err := auth.UserFrom(c)
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

	at := req.BookingTime.Time
	if !at.After(h.now()) {
		return apperror.BadRequest("Booking time must be in the future")
	}
	if !withinOpeningHours(restaurant, at.Hour()*60+at.Minute()) {
		return apperror.BadRequest("Booking time is outside of restaurant opening hours")
	}

	approved, err := h.bookings.ApprovedGuests(ctx, []string{restaurant.ID}, at)
	if err != nil {
		return err
	}
	status := model.BookingStatusPending
	if approved[restaurant.ID]+req.GuestsNumber <= restaurant.AutoApprovedBookingsNum {
		status = model.BookingStatusApproved
	}

	booking := &model.Booking{
		GuestsNumber: req.GuestsNumber,
		BookingTime:  at,
		Status:       status,
		UserID:       &user.ID,
		RestaurantID: restaurant.ID,
	}
	if req.Discussion != nil {
		booking.Discussion = append(booking.Discussion, model.DiscussionItem{
			AuthorID:   user.ID,
			AuthorType: model.AuthorTypeUser,
			Message:    req.Discussion.Message,
			CreatedAt:  h.now(),
		})
	}
	if err := h.bookings.Create(ctx, booking); err != nil {
		return err
	}

	prometheus.RecordBookingCreated(string(status))
	log.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("restaurant_id", restaurant.ID),
		zap.String("status", string(status)))

	return c.JSON(http.StatusOK, echo.Map{
		"booking": echo.Map{"id": booking.ID, "status": booking.Status},
		"message": "Booking was created successfully",
	})
}

// ListBookings handles GET /booking
func (h *Handler) ListBookings(c echo.Context) error {
	req, err := schema.Bound[schema.ListUserBookingsRequest](c)
	if err != nil {
		return err
	}
	user, _, err := auth.UserFrom(c)
	if err != nil {
		return err
	}

	filter := repository.BookingFilter{
		UserID:   user.ID,
		Statuses: req.StatusList(),
		Page:     req.Page,
		Limit:    req.Limit,
	}
	if !req.DateFrom.IsZero() {
		filter.From = &req.DateFrom.Time
	}
	if !req.DateTo.IsZero() {
		filter.To = &req.DateTo.Time
	}

	bookings, total, err := h.bookings.ListForUser(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	out := make([]view.UserBooking, 0, len(bookings))
	for i := range bookings {
		out = append(out, view.NewUserBooking(&bookings[i]))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bookings":   out,
		"pagination": view.NewPagination(req.Page, req.Limit, total),
	})
}

// GetBooking handles GET /booking/:bookingID
func (h *Handler) GetBooking(c echo.Context) error {
	req, err := schema.Bound[schema.GetBookingRequest](c)
	if err != nil {
		return err
	}
	user, _, err := auth.UserFrom(c)
	if err != nil {
		return err
	}

	booking, err := h.bookings.FindForUser(c.Request().Context(), req.BookingID, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Booking was not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": view.NewUserBooking(booking)})
}
