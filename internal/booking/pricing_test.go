package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeQuote(t *testing.T) {
	cases := []struct {
		name      string
		rate      int64
		start     time.Time
		end       time.Time
		wantDays  int64
		wantTotal int64
	}{
		{"three full days", 10000, day(2024, 1, 5), day(2024, 1, 8), 3, 30000},
		{"single day", 10000, day(2024, 1, 5), day(2024, 1, 6), 1, 10000},
		{"partial day rounds up", 10000, day(2024, 1, 5), day(2024, 1, 6).Add(6 * time.Hour), 2, 20000},
		{"month long", 25050, day(2024, 1, 1), day(2024, 1, 31), 30, 751500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ComputeQuote(tc.rate, tc.start, tc.end)
			require.NoError(t, err)
			require.Equal(t, tc.wantDays, q.Days)
			require.Equal(t, tc.wantTotal, q.TotalFils)

			// Pricing is pure: a second call gives the same answer.
			again, err := ComputeQuote(tc.rate, tc.start, tc.end)
			require.NoError(t, err)
			require.Equal(t, q, again)
		})
	}
}

func TestComputeQuoteInvalidRange(t *testing.T) {
	_, err := ComputeQuote(10000, day(2024, 1, 8), day(2024, 1, 5))
	require.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ComputeQuote(10000, day(2024, 1, 5), day(2024, 1, 5))
	require.ErrorIs(t, err, ErrInvalidDateRange)
}
