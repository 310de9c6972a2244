package booking

import "time"

// Quote is the priced summary of a candidate rental range.
type Quote struct {
	Days      int64 // billable days, minimum 1
	TotalFils int64 // Days * daily rate, exact integer arithmetic
}

// ComputeQuote prices a rental of [start, end) at the given daily
// rate in fils. The day count is the ceiling of the range length in
// days with a floor of one, so a same-day pickup and return still
// bills a full day. Returns ErrInvalidDateRange unless end is
// strictly after start.
func ComputeQuote(dailyRateFils int64, start, end time.Time) (Quote, error) {
	if !end.After(start) {
		return Quote{}, ErrInvalidDateRange
	}
	d := end.Sub(start)
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return Quote{Days: days, TotalFils: days * dailyRateFils}, nil
}
