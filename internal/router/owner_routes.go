package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/borrowmycar/backend/internal/handler"    // owner handlers
	"github.com/borrowmycar/backend/internal/middleware" // JWT + role middlewares
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and OWNER role.
func RegisterOwner(e *echo.Echo, cars *handler.OwnerCarHandler, bookings *handler.OwnerBookingHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Fleet management ----
	g.POST("/owner/cars", cars.CreateCar)
	g.GET("/owner/cars", cars.ListCars)
	g.PUT("/owner/cars/:id", cars.UpdateCar)
	g.PATCH("/owner/cars/:id", cars.UpdateCar) // allow partial updates via PATCH as well
	// Delisting hides the car from search; it is refused while any booking
	// still holds the calendar.
	g.DELETE("/owner/cars/:id", cars.DelistCar)
	g.POST("/owner/cars/:id/images", cars.UploadImage)

	// ---- Booking lifecycle ----
	g.GET("/owner/bookings", bookings.ListBookings)
	g.POST("/owner/bookings/:id/approve", bookings.Approve)
	g.POST("/owner/bookings/:id/reject", bookings.Reject)
	g.POST("/owner/bookings/:id/confirm", bookings.Confirm)
	g.POST("/owner/bookings/:id/complete", bookings.Complete)
}
