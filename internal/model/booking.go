package model

import "time"

// Booking records a renter's reservation of a car for a range of
// days.  It corresponds to a row in the `bookings` table.  The date
// range is half-open: StartDate is the first rental day and EndDate
// is the day the car is returned, so [StartDate, EndDate) never
// collides with a booking that starts on EndDate.  TotalFils and
// Days are computed once at creation time and never recomputed.
//
// Fields:
//  ID        – primary key identifier.
//  CarID     – car being booked.
//  RenterID  – user who placed the booking.
//  StartDate – first rental day (inclusive, DATE in UTC).
//  EndDate   – return day (exclusive, DATE in UTC).
//  Status    – lifecycle state, see BookingStatus.
//  Days      – number of billable days.
//  TotalFils – total price in fils for the whole range.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64        // bookings.id
	CarID     uint64        // bookings.car_id
	RenterID  uint64        // bookings.renter_id
	StartDate time.Time     // bookings.start_date (DATE)
	EndDate   time.Time     // bookings.end_date (DATE)
	Status    BookingStatus // bookings.status
	Days      int64         // bookings.days
	TotalFils int64         // bookings.total_fils
	CreatedAt time.Time     // bookings.created_at
	UpdatedAt time.Time     // bookings.updated_at
}
