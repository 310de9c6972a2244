package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/borrowmycar/backend/internal/booking"
	"github.com/borrowmycar/backend/internal/model"
	"github.com/borrowmycar/backend/internal/queue"
	"github.com/borrowmycar/backend/internal/repository"
	publisher "github.com/borrowmycar/backend/internal/service"
)

// newBookingEvent assembles the broker payload for a booking status
// change from the booking and its car.
func newBookingEvent(car *model.Car, b *model.Booking) queue.BookingEvent {
	return queue.BookingEvent{
		BookingID:  b.ID,
		CarID:      car.ID,
		CarTitle:   car.Title,
		City:       car.City,
		OwnerID:    car.OwnerID,
		RenterID:   b.RenterID,
		Status:     string(b.Status),
		StartDate:  b.StartDate.Format("2006-01-02"),
		EndDate:    b.EndDate.Format("2006-01-02"),
		Days:       b.Days,
		TotalFils:  b.TotalFils,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// publishBookingEvent emits a booking event for downstream
// notification. The broker round trip runs in the background with its
// own deadline so a slow or absent broker never delays the response;
// publish failures are logged inside the publisher and never fail the
// request.
func publishBookingEvent(c echo.Context, cars *repository.CarRepo, b *model.Booking) {
	car, err := cars.GetByID(c.Request().Context(), b.CarID)
	if err != nil {
		return
	}
	ev := newBookingEvent(car, b)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = publisher.PublishBookingEvent(ctx, ev)
	}()
}

// getUserID extracts the user_id placed in the context by the JWT
// middleware and converts it to uint64. JWT numeric claims decode as
// float64, so several representations are tolerated.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// parseDate parses a "2006-01-02" date into a UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// respondBookingError maps the booking core's sentinel errors onto
// HTTP responses. Anything unrecognized is a 500.
func respondBookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrCarNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrInvalidDateRange):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid date range"})
	case errors.Is(err, booking.ErrOutsideAvailabilityWindow):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "outside availability window"})
	case errors.Is(err, booking.ErrBookingConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicts with existing booking"})
	case errors.Is(err, booking.ErrSelfBooking):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "cannot book your own car"})
	case errors.Is(err, booking.ErrIllegalTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "illegal transition"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// respondRepoError maps shared repository sentinels; falls back to 500.
func respondRepoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrCarNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, repository.ErrNoChange):
		return c.JSON(http.StatusOK, echo.Map{"message": "no change"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// carResponse is the owner-facing JSON shape of a car.
type carResponse struct {
	ID            uint64   `json:"id"`
	OwnerID       uint64   `json:"owner_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	City          string   `json:"city"`
	DailyRateFils int64    `json:"daily_rate_fils"`
	DailyRate     float64  `json:"daily_rate"`
	Status        string   `json:"status"`
	AvailableFrom string   `json:"available_from"`
	AvailableTo   string   `json:"available_to"`
	Images        []string `json:"images,omitempty"`
}

func toCarResponse(c model.Car, images []string) carResponse {
	return carResponse{
		ID:            c.ID,
		OwnerID:       c.OwnerID,
		Title:         c.Title,
		Description:   c.Description,
		City:          c.City,
		DailyRateFils: c.DailyRateFils,
		DailyRate:     float64(c.DailyRateFils) / 100,
		Status:        c.Status,
		AvailableFrom: c.AvailableFrom.Format("2006-01-02"),
		AvailableTo:   c.AvailableTo.Format("2006-01-02"),
		Images:        images,
	}
}

// bookingResponse is the JSON shape of a booking.
type bookingResponse struct {
	ID        uint64  `json:"id"`
	CarID     uint64  `json:"car_id"`
	RenterID  uint64  `json:"renter_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Status    string  `json:"status"`
	Days      int64   `json:"days"`
	TotalFils int64   `json:"total_fils"`
	Total     float64 `json:"total"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		CarID:     b.CarID,
		RenterID:  b.RenterID,
		StartDate: b.StartDate.Format("2006-01-02"),
		EndDate:   b.EndDate.Format("2006-01-02"),
		Status:    string(b.Status),
		Days:      b.Days,
		TotalFils: b.TotalFils,
		Total:     float64(b.TotalFils) / 100,
	}
}
