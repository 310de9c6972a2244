package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/borrowmycar/backend/internal/booking"
	"github.com/borrowmycar/backend/internal/model"
)

func TestNewBookingEvent(t *testing.T) {
	car := &model.Car{
		ID:      10,
		OwnerID: 1,
		Title:   "Nissan Patrol 2022",
		City:    "Dubai",
	}
	b := &model.Booking{
		ID:        7,
		CarID:     10,
		RenterID:  2,
		StartDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Status:    model.BookingPending,
		Days:      3,
		TotalFils: 30000,
	}

	ev := newBookingEvent(car, b)
	require.EqualValues(t, 7, ev.BookingID)
	require.EqualValues(t, 10, ev.CarID)
	require.Equal(t, "Nissan Patrol 2022", ev.CarTitle)
	require.Equal(t, "Dubai", ev.City)
	require.EqualValues(t, 1, ev.OwnerID)
	require.EqualValues(t, 2, ev.RenterID)
	require.Equal(t, "PENDING", ev.Status)
	require.Equal(t, "2024-01-05", ev.StartDate)
	require.Equal(t, "2024-01-08", ev.EndDate)
	require.EqualValues(t, 3, ev.Days)
	require.EqualValues(t, 30000, ev.TotalFils)

	occurred, err := time.Parse(time.RFC3339, ev.OccurredAt)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC(), occurred, 5*time.Second)
}

func TestRespondBookingErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{booking.ErrCarNotFound, http.StatusNotFound},
		{booking.ErrBookingNotFound, http.StatusNotFound},
		{booking.ErrInvalidDateRange, http.StatusUnprocessableEntity},
		{booking.ErrOutsideAvailabilityWindow, http.StatusUnprocessableEntity},
		{booking.ErrSelfBooking, http.StatusUnprocessableEntity},
		{booking.ErrBookingConflict, http.StatusConflict},
		{booking.ErrIllegalTransition, http.StatusConflict},
	}
	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, respondBookingError(c, tc.err))
		require.Equal(t, tc.want, rec.Code, "status for %v", tc.err)
	}
}
