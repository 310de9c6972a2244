package router

import (
	"github.com/labstack/echo/v4"

	"github.com/borrowmycar/backend/internal/handler"
	"github.com/borrowmycar/backend/internal/middleware"
)

// RegisterRenter registers renter-scoped endpoints under /v1.  All routes
// require a valid JWT and the RENTER role.  Renters can place bookings on
// listed cars, cancel their own pending or approved bookings and list
// their booking history.
func RegisterRenter(e *echo.Echo, h *handler.RenterBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("RENTER"),
	)
	// Note: GET /v1/cars, GET /v1/cars/:id and the availability probe are
	// registered on the public router so that guests can browse before
	// signing up.  Renter-specific endpoints begin here.
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings", h.ListBookings)
	g.POST("/bookings/:id/cancel", h.CancelBooking)
}
