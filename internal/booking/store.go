package booking

import (
	"context"

	"github.com/borrowmycar/backend/internal/model"
)

// Store is the persistence boundary the Service depends on. The
// production implementation lives in internal/repository and is
// backed by MySQL; tests substitute an in-memory fake. Implementations
// must translate their own missing-row conditions into ErrCarNotFound
// and ErrBookingNotFound so callers of the Service see a single error
// vocabulary.
type Store interface {
	// Car loads a car by ID. Delisted cars are reported as missing.
	Car(ctx context.Context, id uint64) (*model.Car, error)

	// Booking loads a booking by ID.
	Booking(ctx context.Context, id uint64) (*model.Booking, error)

	// SlotHoldingBookings returns every booking on the car whose
	// status still holds its date range. When excludeID is non-zero
	// that booking is left out, which lets an existing booking be
	// re-validated against its peers.
	SlotHoldingBookings(ctx context.Context, carID, excludeID uint64) ([]model.Booking, error)

	// CreateBooking persists a new booking and fills in its ID and
	// timestamps.
	CreateBooking(ctx context.Context, b *model.Booking) error

	// UpdateBookingStatus performs a compare-and-swap on the status
	// column: the write only happens if the row still carries the
	// `from` status. It reports whether a row was updated.
	UpdateBookingStatus(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error)

	// WithCarLock runs fn while holding an exclusive lock on the car
	// row, with all Store calls inside fn bound to the same database
	// transaction. The availability check and the booking insert run
	// under this lock so two concurrent creates for the same car are
	// serialized.
	WithCarLock(ctx context.Context, carID uint64, fn func(Store) error) error
}
