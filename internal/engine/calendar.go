package engine

import "time"

// monthStart[m-1] is the cumulative day count of a non-leap year before
// the first of month m (1-based). Shared by the date lexer and by the
// TODAY()/DATE() builtin functions so both use the same approximation.
var monthStart = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// dayCount implements the spec's calendar approximation:
//
//	(y-1900)*365 + (y-1900)/4 + 1 + monthStart[m-1] + d
//
// This over-counts leap days for years before the next leap year and for
// January/February of a leap year itself — a known, intentionally
// preserved inaccuracy (see spec §9). Year is clamped to >= 1900 per spec;
// month must be in [1,12] and day in [1,31].
func dayCount(y, m, d int) float64 {
	if y < 1900 {
		y = 1900
	}
	yy := y - 1900
	return float64(yy*365 + yy/4 + 1 + monthStart[m-1] + d)
}

// todayDayCount returns the current civil date using the same formula as
// dayCount, per spec's TODAY() definition.
func todayDayCount() float64 {
	now := time.Now()
	return dayCount(now.Year(), int(now.Month()), now.Day())
}
