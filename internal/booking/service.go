package booking

import (
	"context"
	"time"

	"github.com/borrowmycar/backend/internal/model"
)

// Service owns booking creation and every status change. It is the
// only code allowed to mutate the set of bookings for a car; callers
// never write status fields directly.
type Service struct {
	store Store
	now   func() time.Time // injectable clock for tests
}

// NewService wires a Service to its persistence. The store must not
// be nil.
func NewService(store Store) *Service {
	if store == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{store: store, now: time.Now}
}

// CheckAvailability reports whether [start, end) is bookable on the
// car. excludeID, when non-zero, names a booking whose own range is
// ignored during the conflict scan; pass it when re-validating an
// existing booking. The check is read-only.
func (s *Service) CheckAvailability(ctx context.Context, carID uint64, start, end time.Time, excludeID uint64) error {
	start, end = dateOnly(start), dateOnly(end)
	if !end.After(start) {
		return ErrInvalidDateRange
	}
	car, err := s.store.Car(ctx, carID)
	if err != nil {
		return err
	}
	return checkAgainst(ctx, s.store, car, start, end, excludeID)
}

// Create places a new booking for the renter on the car. The quote
// and the availability check are re-run inside a car-scoped lock so
// a concurrent create for an overlapping range cannot slip through
// between check and insert. The booking is persisted in PENDING.
func (s *Service) Create(ctx context.Context, carID, renterID uint64, start, end time.Time) (*model.Booking, error) {
	start, end = dateOnly(start), dateOnly(end)
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}
	var created *model.Booking
	err := s.store.WithCarLock(ctx, carID, func(st Store) error {
		car, err := st.Car(ctx, carID)
		if err != nil {
			return err
		}
		if car.OwnerID == renterID {
			return ErrSelfBooking
		}
		q, err := ComputeQuote(car.DailyRateFils, start, end)
		if err != nil {
			return err
		}
		if err := checkAgainst(ctx, st, car, start, end, 0); err != nil {
			return err
		}
		b := &model.Booking{
			CarID:     carID,
			RenterID:  renterID,
			StartDate: start,
			EndDate:   end,
			Status:    model.BookingPending,
			Days:      q.Days,
			TotalFils: q.TotalFils,
		}
		if err := st.CreateBooking(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Transition moves a booking to the target status on behalf of the
// given actor. Owners must own the booked car and renters must have
// placed the booking; the system actor is reserved for scheduled
// completion and carries no identity. Wrong actor, wrong current
// state and unlisted edges all fail with ErrIllegalTransition, as
// does losing the compare-and-swap to a concurrent transition.
func (s *Service) Transition(ctx context.Context, bookingID, actorID uint64, actor model.Actor, target model.BookingStatus) (*model.Booking, error) {
	b, err := s.store.Booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	car, err := s.store.Car(ctx, b.CarID)
	if err != nil {
		return nil, err
	}
	switch actor {
	case model.ActorOwner:
		if car.OwnerID != actorID {
			return nil, ErrIllegalTransition
		}
	case model.ActorRenter:
		if b.RenterID != actorID {
			return nil, ErrIllegalTransition
		}
	case model.ActorSystem:
		// scheduled process, no identity to verify
	default:
		return nil, ErrIllegalTransition
	}
	if !model.CanTransition(b.Status, target, actor) {
		return nil, ErrIllegalTransition
	}
	// Completion only once the return day has arrived.
	if target == model.BookingCompleted && dateOnly(s.now().UTC()).Before(b.EndDate) {
		return nil, ErrIllegalTransition
	}
	ok, err := s.store.UpdateBookingStatus(ctx, bookingID, b.Status, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Row moved under us; the requested edge no longer exists.
		return nil, ErrIllegalTransition
	}
	b.Status = target
	return b, nil
}

// checkAgainst validates the candidate range against the car's
// availability window and every slot-holding booking on the car.
// AvailableTo names the last rentable day, so the exclusive end of
// the candidate may extend one day past it.
func checkAgainst(ctx context.Context, st Store, car *model.Car, start, end time.Time, excludeID uint64) error {
	windowEnd := car.AvailableTo.AddDate(0, 0, 1)
	if start.Before(car.AvailableFrom) || end.After(windowEnd) {
		return ErrOutsideAvailabilityWindow
	}
	others, err := st.SlotHoldingBookings(ctx, car.ID, excludeID)
	if err != nil {
		return err
	}
	for _, b := range others {
		// Half-open overlap: [start,end) and [b.Start,b.End) collide
		// iff each starts before the other ends.
		if start.Before(b.EndDate) && b.StartDate.Before(end) {
			return ErrBookingConflict
		}
	}
	return nil
}

// dateOnly truncates t to its UTC calendar day. Bookings operate at
// whole-day granularity.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
