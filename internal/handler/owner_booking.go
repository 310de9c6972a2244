package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/borrowmycar/backend/internal/booking"
	"github.com/borrowmycar/backend/internal/model"
	"github.com/borrowmycar/backend/internal/repository"
)

// OwnerBookingHandler serves booking operations available to owners:
// listing requests against their fleet and driving a booking through
// approve, reject, confirm and complete. The actual legality of each
// move is decided by the booking core, not here.
type OwnerBookingHandler struct {
	Bookings *repository.BookingRepo
	Cars     *repository.CarRepo
	Core     *booking.Service
}

// NewOwnerBookingHandler constructs the handler. All dependencies
// must be non-nil.
func NewOwnerBookingHandler(bookings *repository.BookingRepo, cars *repository.CarRepo, core *booking.Service) *OwnerBookingHandler {
	if bookings == nil || cars == nil || core == nil {
		panic("nil dependency passed to NewOwnerBookingHandler")
	}
	return &OwnerBookingHandler{Bookings: bookings, Cars: cars, Core: core}
}

// ListBookings handles GET /v1/owner/bookings and returns every
// booking placed against any of the owner's cars, newest first.
func (h *OwnerBookingHandler) ListBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Bookings.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Approve handles POST /v1/owner/bookings/:id/approve.
func (h *OwnerBookingHandler) Approve(c echo.Context) error {
	return h.transition(c, model.BookingApproved)
}

// Reject handles POST /v1/owner/bookings/:id/reject.
func (h *OwnerBookingHandler) Reject(c echo.Context) error {
	return h.transition(c, model.BookingRejected)
}

// Confirm handles POST /v1/owner/bookings/:id/confirm. This marks the
// handover as agreed and keeps the slot held until completion.
func (h *OwnerBookingHandler) Confirm(c echo.Context) error {
	return h.transition(c, model.BookingConfirmed)
}

// Complete handles POST /v1/owner/bookings/:id/complete. The core
// refuses completion before the booking's end date has passed.
func (h *OwnerBookingHandler) Complete(c echo.Context) error {
	return h.transition(c, model.BookingCompleted)
}

func (h *OwnerBookingHandler) transition(c echo.Context, to model.BookingStatus) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Core.Transition(c.Request().Context(), bookingID, ownerID, model.ActorOwner, to)
	if err != nil {
		return respondBookingError(c, err)
	}
	publishBookingEvent(c, h.Cars, b)
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
