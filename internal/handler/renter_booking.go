package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/borrowmycar/backend/internal/booking"
	"github.com/borrowmycar/backend/internal/model"
	"github.com/borrowmycar/backend/internal/repository"
)

// RenterBookingHandler serves booking operations available to
// renters: placing a booking, cancelling one and listing their own.
// Status changes go exclusively through the booking core; this
// handler never writes a status itself.
type RenterBookingHandler struct {
	Bookings *repository.BookingRepo
	Cars     *repository.CarRepo
	Core     *booking.Service
}

// NewRenterBookingHandler constructs the handler. All dependencies
// must be non-nil.
func NewRenterBookingHandler(bookings *repository.BookingRepo, cars *repository.CarRepo, core *booking.Service) *RenterBookingHandler {
	if bookings == nil || cars == nil || core == nil {
		panic("nil dependency passed to NewRenterBookingHandler")
	}
	return &RenterBookingHandler{Bookings: bookings, Cars: cars, Core: core}
}

type createBookingReq struct {
	CarID     uint64 `json:"car_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// CreateBooking handles POST /v1/bookings. The core re-prices the
// range and re-checks availability under a car-scoped lock, so two
// overlapping requests cannot both succeed.
func (h *RenterBookingHandler) CreateBooking(c echo.Context) error {
	renterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}

	b, err := h.Core.Create(c.Request().Context(), req.CarID, renterID, start, end)
	if err != nil {
		return respondBookingError(c, err)
	}
	publishBookingEvent(c, h.Cars, b)
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// CancelBooking handles POST /v1/bookings/:id/cancel. Only the
// renter who placed the booking may cancel, and only from PENDING or
// APPROVED.
func (h *RenterBookingHandler) CancelBooking(c echo.Context) error {
	renterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Core.Transition(c.Request().Context(), bookingID, renterID, model.ActorRenter, model.BookingCancelled)
	if err != nil {
		return respondBookingError(c, err)
	}
	publishBookingEvent(c, h.Cars, b)
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// ListBookings handles GET /v1/bookings and returns the renter's
// bookings with car details, newest first.
func (h *RenterBookingHandler) ListBookings(c echo.Context) error {
	renterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Bookings.ListByRenter(c.Request().Context(), renterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}
