package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBookingStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "APPROVED", "CONFIRMED", "ACTIVE", "COMPLETED", "CANCELLED", "REJECTED"} {
		got, err := ParseBookingStatus(s)
		require.NoError(t, err)
		require.Equal(t, BookingStatus(s), got)
	}
	_, err := ParseBookingStatus("pending")
	require.Error(t, err)
	_, err = ParseBookingStatus("DECLINED")
	require.Error(t, err)
}

func TestSlotHoldingAndTerminal(t *testing.T) {
	holding := []BookingStatus{BookingPending, BookingApproved, BookingConfirmed, BookingActive}
	for _, s := range holding {
		require.True(t, s.IsSlotHolding(), s)
		require.False(t, s.IsTerminal(), s)
	}
	terminal := []BookingStatus{BookingCompleted, BookingCancelled, BookingRejected}
	for _, s := range terminal {
		require.False(t, s.IsSlotHolding(), s)
		require.True(t, s.IsTerminal(), s)
	}
}

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(BookingPending, BookingApproved, ActorOwner))
	require.False(t, CanTransition(BookingPending, BookingApproved, ActorRenter))
	require.True(t, CanTransition(BookingApproved, BookingCancelled, ActorRenter))
	require.False(t, CanTransition(BookingApproved, BookingRejected, ActorOwner))
	require.True(t, CanTransition(BookingConfirmed, BookingCompleted, ActorSystem))

	// Nothing leaves a terminal state.
	for _, from := range []BookingStatus{BookingCompleted, BookingCancelled, BookingRejected} {
		for _, to := range []BookingStatus{BookingPending, BookingApproved, BookingConfirmed, BookingActive, BookingCompleted, BookingCancelled, BookingRejected} {
			for _, a := range []Actor{ActorRenter, ActorOwner, ActorSystem} {
				require.False(t, CanTransition(from, to, a))
			}
		}
	}
}
