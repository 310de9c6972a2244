package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// rangeWithinWindow decides whether an availability-window update may
// proceed: every slot-holding booking must still fit the new window.
func TestRangeWithinWindow(t *testing.T) {
	from, to := date(2024, 1, 10), date(2024, 1, 20)

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", date(2024, 1, 12), date(2024, 1, 15), true},
		{"fills window", date(2024, 1, 10), date(2024, 1, 21), true},
		{"starts on first day", date(2024, 1, 10), date(2024, 1, 12), true},
		{"ends day after last rentable day", date(2024, 1, 18), date(2024, 1, 21), true},
		{"starts before window", date(2024, 1, 9), date(2024, 1, 12), false},
		{"ends past window", date(2024, 1, 18), date(2024, 1, 22), false},
		{"entirely before", date(2024, 1, 2), date(2024, 1, 5), false},
		{"entirely after", date(2024, 1, 25), date(2024, 1, 28), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, rangeWithinWindow(from, to, tc.start, tc.end))
		})
	}
}
