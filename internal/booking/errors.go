// Package booking implements the rental booking core: availability
// checking over half-open date ranges, the booking lifecycle state
// machine, and pricing. It is a plain library; HTTP concerns, auth
// and notifications live in the layers above. All failures are
// reported through the sentinel errors below so handlers can map
// them to status codes with errors.Is.
package booking

import "errors"

// ErrCarNotFound is returned when the referenced car does not exist
// or is no longer listed.
var ErrCarNotFound = errors.New("car not found")

// ErrBookingNotFound is returned when the referenced booking does
// not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrInvalidDateRange is returned when the end date is not strictly
// after the start date.
var ErrInvalidDateRange = errors.New("invalid date range")

// ErrOutsideAvailabilityWindow is returned when the requested range
// falls outside the car's listed availability window.
var ErrOutsideAvailabilityWindow = errors.New("outside availability window")

// ErrBookingConflict is returned when the requested range overlaps a
// booking that currently holds the slot. Persistence conflicts during
// concurrent creates surface as this error too, so callers can
// simply retry.
var ErrBookingConflict = errors.New("conflicts with existing booking")

// ErrSelfBooking is returned when a renter attempts to book their
// own car.
var ErrSelfBooking = errors.New("self booking not allowed")

// ErrIllegalTransition is returned when the requested status change
// is not permitted from the current state, or not permitted for the
// acting party.
var ErrIllegalTransition = errors.New("illegal transition")
