package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/borrowmycar/backend/internal/model"
)

// fakeStore is an in-memory Store used to exercise the service
// without a database. WithCarLock serializes on a single mutex,
// which is enough to satisfy the locking contract in tests.
type fakeStore struct {
	mu       sync.Mutex
	cars     map[uint64]*model.Car
	bookings map[uint64]*model.Booking
	nextID   uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cars:     map[uint64]*model.Car{},
		bookings: map[uint64]*model.Booking{},
	}
}

func (f *fakeStore) addCar(c model.Car) {
	if c.Status == "" {
		c.Status = model.CarStatusListed
	}
	f.cars[c.ID] = &c
}

func (f *fakeStore) Car(ctx context.Context, id uint64) (*model.Car, error) {
	c, ok := f.cars[id]
	if !ok || c.Status != model.CarStatusListed {
		return nil, ErrCarNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) Booking(ctx context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) SlotHoldingBookings(ctx context.Context, carID, excludeID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.CarID != carID || b.ID == excludeID || !b.Status.IsSlotHolding() {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateBookingStatus(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error) {
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeStore) WithCarLock(ctx context.Context, carID uint64, fn func(Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f)
}

const (
	ownerID  = 1
	renterID = 2
)

// newTestService returns a service over a store seeded with one car:
// window 2024-01-01..2024-01-31, 100 AED (10000 fils) per day.
func newTestService() (*Service, *fakeStore) {
	st := newFakeStore()
	st.addCar(model.Car{
		ID:            10,
		OwnerID:       ownerID,
		Title:         "Nissan Patrol 2022",
		City:          "Dubai",
		DailyRateFils: 10000,
		AvailableFrom: day(2024, 1, 1),
		AvailableTo:   day(2024, 1, 31),
	})
	return NewService(st), st
}

func TestCreateScenario(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, renterID, day(2024, 1, 5), day(2024, 1, 8))
	require.NoError(t, err)
	require.Equal(t, model.BookingPending, b.Status)
	require.EqualValues(t, 3, b.Days)
	require.EqualValues(t, 30000, b.TotalFils)

	// Overlapping range on the same car must be rejected.
	_, err = svc.Create(ctx, 10, 3, day(2024, 1, 7), day(2024, 1, 10))
	require.ErrorIs(t, err, ErrBookingConflict)

	// Owner approves; renter attempting the same edge is illegal.
	approved, err := svc.Transition(ctx, b.ID, ownerID, model.ActorOwner, model.BookingApproved)
	require.NoError(t, err)
	require.Equal(t, model.BookingApproved, approved.Status)

	_, err = svc.Transition(ctx, b.ID, renterID, model.ActorRenter, model.BookingApproved)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCheckAvailability(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.CheckAvailability(ctx, 10, day(2024, 1, 5), day(2024, 1, 8), 0))

	err := svc.CheckAvailability(ctx, 10, day(2023, 12, 30), day(2024, 1, 3), 0)
	require.ErrorIs(t, err, ErrOutsideAvailabilityWindow)

	err = svc.CheckAvailability(ctx, 10, day(2024, 1, 30), day(2024, 2, 5), 0)
	require.ErrorIs(t, err, ErrOutsideAvailabilityWindow)

	// The last listed day is rentable: its exclusive end lands one
	// day past AvailableTo.
	require.NoError(t, svc.CheckAvailability(ctx, 10, day(2024, 1, 31), day(2024, 2, 1), 0))

	err = svc.CheckAvailability(ctx, 10, day(2024, 1, 8), day(2024, 1, 5), 0)
	require.ErrorIs(t, err, ErrInvalidDateRange)

	err = svc.CheckAvailability(ctx, 99, day(2024, 1, 5), day(2024, 1, 8), 0)
	require.ErrorIs(t, err, ErrCarNotFound)
}

func TestCheckAvailabilityExcludesBooking(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, renterID, day(2024, 1, 5), day(2024, 1, 8))
	require.NoError(t, err)

	// The booking conflicts with itself unless excluded.
	err = svc.CheckAvailability(ctx, 10, day(2024, 1, 5), day(2024, 1, 8), 0)
	require.ErrorIs(t, err, ErrBookingConflict)

	require.NoError(t, svc.CheckAvailability(ctx, 10, day(2024, 1, 5), day(2024, 1, 8), b.ID))
}

func TestHalfOpenBoundary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 10, renterID, day(2024, 1, 10), day(2024, 1, 15))
	require.NoError(t, err)

	// Touching ranges do not overlap: candidate end equals existing
	// start and vice versa.
	_, err = svc.Create(ctx, 10, 3, day(2024, 1, 8), day(2024, 1, 10))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 10, 4, day(2024, 1, 15), day(2024, 1, 18))
	require.NoError(t, err)
}

func TestTerminalBookingFreesSlot(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, renterID, day(2024, 1, 5), day(2024, 1, 8))
	require.NoError(t, err)

	_, err = svc.Create(ctx, 10, 3, day(2024, 1, 5), day(2024, 1, 8))
	require.ErrorIs(t, err, ErrBookingConflict)

	_, err = svc.Transition(ctx, b.ID, renterID, model.ActorRenter, model.BookingCancelled)
	require.NoError(t, err)

	// Cancelled bookings no longer hold the slot.
	_, err = svc.Create(ctx, 10, 3, day(2024, 1, 5), day(2024, 1, 8))
	require.NoError(t, err)
}

func TestSelfBooking(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), 10, ownerID, day(2024, 1, 5), day(2024, 1, 8))
	require.ErrorIs(t, err, ErrSelfBooking)
}

func TestCompleteRequiresEndDatePassed(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, renterID, day(2024, 1, 5), day(2024, 1, 8))
	require.NoError(t, err)
	st.bookings[b.ID].Status = model.BookingConfirmed

	svc.now = func() time.Time { return day(2024, 1, 7) }
	_, err = svc.Transition(ctx, b.ID, ownerID, model.ActorOwner, model.BookingCompleted)
	require.ErrorIs(t, err, ErrIllegalTransition)

	svc.now = func() time.Time { return day(2024, 1, 8) }
	done, err := svc.Transition(ctx, b.ID, ownerID, model.ActorOwner, model.BookingCompleted)
	require.NoError(t, err)
	require.Equal(t, model.BookingCompleted, done.Status)
}

// TestTransitionTableExhaustive drives every (from, target, actor)
// combination through the service and checks that exactly the edges
// in the transition table succeed.
func TestTransitionTableExhaustive(t *testing.T) {
	statuses := []model.BookingStatus{
		model.BookingPending, model.BookingApproved, model.BookingConfirmed,
		model.BookingActive, model.BookingCompleted, model.BookingCancelled,
		model.BookingRejected,
	}
	actors := []struct {
		actor model.Actor
		id    uint64
	}{
		{model.ActorOwner, ownerID},
		{model.ActorRenter, renterID},
		{model.ActorSystem, 0},
	}

	type edge struct {
		from, to model.BookingStatus
		actor    model.Actor
	}
	allowed := map[edge]bool{
		{model.BookingPending, model.BookingApproved, model.ActorOwner}:      true,
		{model.BookingPending, model.BookingRejected, model.ActorOwner}:      true,
		{model.BookingPending, model.BookingCancelled, model.ActorRenter}:    true,
		{model.BookingApproved, model.BookingConfirmed, model.ActorOwner}:    true,
		{model.BookingApproved, model.BookingCancelled, model.ActorRenter}:   true,
		{model.BookingConfirmed, model.BookingCompleted, model.ActorOwner}:   true,
		{model.BookingConfirmed, model.BookingCompleted, model.ActorSystem}:  true,
		{model.BookingActive, model.BookingCompleted, model.ActorOwner}:      true,
		{model.BookingActive, model.BookingCompleted, model.ActorSystem}:     true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			if from == to {
				continue
			}
			for _, a := range actors {
				svc, st := newTestService()
				ctx := context.Background()
				b, err := svc.Create(ctx, 10, renterID, day(2024, 1, 5), day(2024, 1, 8))
				require.NoError(t, err)
				st.bookings[b.ID].Status = from
				svc.now = func() time.Time { return day(2024, 2, 1) } // end date long passed

				_, err = svc.Transition(ctx, b.ID, a.id, a.actor, to)
				if allowed[edge{from, to, a.actor}] {
					require.NoErrorf(t, err, "%s -> %s by %s should be allowed", from, to, a.actor)
				} else {
					require.ErrorIsf(t, err, ErrIllegalTransition, "%s -> %s by %s should be illegal", from, to, a.actor)
				}
			}
		}
	}
}

func TestTransitionWrongIdentity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, renterID, day(2024, 1, 5), day(2024, 1, 8))
	require.NoError(t, err)

	// A different owner cannot act on this car's bookings.
	_, err = svc.Transition(ctx, b.ID, 42, model.ActorOwner, model.BookingApproved)
	require.ErrorIs(t, err, ErrIllegalTransition)

	// A different renter cannot cancel someone else's booking.
	_, err = svc.Transition(ctx, b.ID, 42, model.ActorRenter, model.BookingCancelled)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

// contestedStore hands out a booking snapshot and then flips the
// stored row to REJECTED, simulating a concurrent transition landing
// between the service's load and its compare-and-swap.
type contestedStore struct {
	*fakeStore
}

func (c *contestedStore) Booking(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := c.fakeStore.Booking(ctx, id)
	if err == nil {
		c.fakeStore.bookings[id].Status = model.BookingRejected
	}
	return b, err
}

func TestTransitionLostRace(t *testing.T) {
	st := newFakeStore()
	st.addCar(model.Car{
		ID:            10,
		OwnerID:       ownerID,
		DailyRateFils: 10000,
		AvailableFrom: day(2024, 1, 1),
		AvailableTo:   day(2024, 1, 31),
	})
	svc := NewService(&contestedStore{st})
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, renterID, day(2024, 1, 5), day(2024, 1, 8))
	require.NoError(t, err)

	// The approve loads PENDING, but the row has moved to REJECTED by
	// the time the swap runs; the lost CAS must surface as an illegal
	// transition, not a silent overwrite.
	_, err = svc.Transition(ctx, b.ID, ownerID, model.ActorOwner, model.BookingApproved)
	require.ErrorIs(t, err, ErrIllegalTransition)
	require.Equal(t, model.BookingRejected, st.bookings[b.ID].Status)
}

func TestTransitionBookingNotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Transition(context.Background(), 999, ownerID, model.ActorOwner, model.BookingApproved)
	require.ErrorIs(t, err, ErrBookingNotFound)
}
