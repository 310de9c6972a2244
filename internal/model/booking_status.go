package model

import "fmt"

// BookingStatus is the closed set of lifecycle states a booking can
// be in. Every status write in the codebase goes through the
// transition table below; no other package may invent status
// strings.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingApproved  BookingStatus = "APPROVED"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingRejected  BookingStatus = "REJECTED"
)

// Actor identifies who is driving a booking transition. Owners act
// on bookings placed against their cars, renters on bookings they
// created, and the system actor covers scheduled completion of
// rentals whose end date has passed.
type Actor string

const (
	ActorRenter Actor = "RENTER"
	ActorOwner  Actor = "OWNER"
	ActorSystem Actor = "SYSTEM"
)

// ParseBookingStatus validates a raw string against the closed enum.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingPending, BookingApproved, BookingConfirmed, BookingActive,
		BookingCompleted, BookingCancelled, BookingRejected:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}

// ParseActor validates a raw string against the known actors.
func ParseActor(s string) (Actor, error) {
	switch Actor(s) {
	case ActorRenter, ActorOwner, ActorSystem:
		return Actor(s), nil
	default:
		return "", fmt.Errorf("unknown actor: %q", s)
	}
}

// slotHolding lists the statuses that reserve the car for the
// booking's date range. A booking in any of these states blocks
// overlapping bookings from being created.
var slotHolding = map[BookingStatus]bool{
	BookingPending:   true,
	BookingApproved:  true,
	BookingConfirmed: true,
	BookingActive:    true,
}

// IsSlotHolding reports whether a booking in status s keeps its date
// range reserved against the car.
func (s BookingStatus) IsSlotHolding() bool { return slotHolding[s] }

// SlotHoldingStatuses returns the slot-holding statuses in a stable
// order, for building SQL IN clauses.
func SlotHoldingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingApproved, BookingConfirmed, BookingActive}
}

// IsTerminal reports whether no further transition is defined out of s.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingCompleted, BookingCancelled, BookingRejected:
		return true
	}
	return false
}

// transitions is the single source of truth for the booking state
// machine. It maps (from, to) to the set of actors allowed to drive
// that edge. There is intentionally no edge into ACTIVE: the status
// is kept in the enum as a slot-holding state for in-progress
// rentals but nothing in the current flow promotes a booking into
// it; it can only leave via COMPLETED.
var transitions = map[BookingStatus]map[BookingStatus][]Actor{
	BookingPending: {
		BookingApproved:  {ActorOwner},
		BookingRejected:  {ActorOwner},
		BookingCancelled: {ActorRenter},
	},
	BookingApproved: {
		BookingConfirmed: {ActorOwner},
		BookingCancelled: {ActorRenter},
	},
	BookingConfirmed: {
		BookingCompleted: {ActorOwner, ActorSystem},
	},
	BookingActive: {
		BookingCompleted: {ActorOwner, ActorSystem},
	},
}

// CanTransition reports whether actor may move a booking from one
// status to another. Unknown states, terminal states and unlisted
// edges all return false.
func CanTransition(from, to BookingStatus, actor Actor) bool {
	for _, a := range transitions[from][to] {
		if a == actor {
			return true
		}
	}
	return false
}
