package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/borrowmycar/backend/internal/booking"
	"github.com/borrowmycar/backend/internal/repository"
)

// PublicBrowseHandler serves the unauthenticated marketplace surface:
// searching listed cars, viewing a single listing and probing whether
// a date range is free. Delisted cars are invisible here.
type PublicBrowseHandler struct {
	Cars     *repository.CarRepo
	Bookings *repository.BookingRepo
	Core     *booking.Service
}

// NewPublicBrowseHandler constructs the handler. All dependencies
// must be non-nil.
func NewPublicBrowseHandler(cars *repository.CarRepo, bookings *repository.BookingRepo, core *booking.Service) *PublicBrowseHandler {
	if cars == nil || bookings == nil || core == nil {
		panic("nil dependency passed to NewPublicBrowseHandler")
	}
	return &PublicBrowseHandler{Cars: cars, Bookings: bookings, Core: core}
}

// SearchCars handles GET /v1/cars. Supported query parameters:
// city, q (free text over title and description), max_rate (AED),
// from, to (YYYY-MM-DD; both required to filter by window), page,
// page_size.
func (h *PublicBrowseHandler) SearchCars(c echo.Context) error {
	q := repository.CarSearchQuery{
		City:     c.QueryParam("city"),
		Query:    c.QueryParam("q"),
		Page:     1,
		PageSize: 20,
	}
	if v := c.QueryParam("max_rate"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_rate"})
		}
		q.MaxRateFils = int64(rate * 100)
	}
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if (from == "") != (to == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to must be provided together"})
	}
	if from != "" {
		fd, err1 := parseDate(from)
		td, err2 := parseDate(to)
		if err1 != nil || err2 != nil || !fd.Before(td.AddDate(0, 0, 1)) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date filter"})
		}
		q.From, q.To = from, to
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Page = n
		}
	}
	if v := c.QueryParam("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			q.PageSize = n
		}
	}

	rows, total, err := h.Cars.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"cars":      rows,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

// bookedRange is a date span currently held against a car. End is
// exclusive, matching how bookings are stored.
type bookedRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GetCar handles GET /v1/cars/:id. The response includes images and
// the booked ranges still holding the calendar, so a client can render
// availability without probing day by day.
func (h *PublicBrowseHandler) GetCar(c echo.Context) error {
	carID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	car, err := h.Cars.GetListedByID(c.Request().Context(), carID)
	if err != nil {
		return respondRepoError(c, err)
	}
	imgs, err := h.Cars.ListImages(c.Request().Context(), carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	urls := make([]string, 0, len(imgs))
	for _, img := range imgs {
		urls = append(urls, img.URL)
	}
	held, err := h.Bookings.SlotHoldingBookings(c.Request().Context(), carID, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ranges := make([]bookedRange, 0, len(held))
	for _, b := range held {
		ranges = append(ranges, bookedRange{
			Start: b.StartDate.Format("2006-01-02"),
			End:   b.EndDate.Format("2006-01-02"),
		})
	}
	resp := toCarResponse(*car, urls)
	return c.JSON(http.StatusOK, echo.Map{"car": resp, "booked": ranges})
}

// CheckAvailability handles GET /v1/cars/:id/availability?start=..&end=..
// and answers with {"available": bool} plus a reason when the range is
// not bookable.
func (h *PublicBrowseHandler) CheckAvailability(c echo.Context) error {
	carID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	start, err := parseDate(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start"})
	}
	end, err := parseDate(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end"})
	}

	err = h.Core.CheckAvailability(c.Request().Context(), carID, start, end, 0)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"available": true})
	case errors.Is(err, booking.ErrCarNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	case errors.Is(err, booking.ErrInvalidDateRange),
		errors.Is(err, booking.ErrOutsideAvailabilityWindow),
		errors.Is(err, booking.ErrBookingConflict):
		return c.JSON(http.StatusOK, echo.Map{"available": false, "reason": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
