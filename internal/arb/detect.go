package arb

import (
	"math"
	"time"
)

// IsArbitrage reports whether a match's summed implied probability is
// low enough to lock in a profit at the given cutoff. Both bounds are
// strict: exactly 1-cutoff (or exactly zero) does not qualify.
func IsArbitrage(totalImplied, cutoff float64) bool {
	return totalImplied > 0 && totalImplied < 1-cutoff
}

// HoursToStart returns the hours between now and kick-off, rounded to
// two decimal places. Negative once the match has started.
func HoursToStart(start, now time.Time) float64 {
	return round2(start.Sub(now).Hours())
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
