package utils

import (
	"math"
	"math/rand"
)

// RandomInt64 returns a random integer between min and max (inclusive) from rng
func RandomInt64(rng *rand.Rand, min, max int64) int64 {
	if min >= max {
		return min
	}
	return rng.Int63n(max-min+1) + min
}

// Chance reports whether a roll against probability p succeeds
func Chance(rng *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}

// BonusMultiplier turns a percentage bonus into a multiplier, never below zero
func BonusMultiplier(pct float64) float64 {
	return math.Max(0, 1+pct/100)
}

// DiminishingReturns calculates a value with diminishing returns.
// value: The input value.
// scale: The value at which the output is 50% of the maximum possible output (asymptote).
// formula: value / (value + scale) -> returns a factor between 0 and 1
// To get a result scaled to a max, multiply the result by max.
func DiminishingReturns(value, scale float64) float64 {
	if value < 0 {
		return 0
	}
	return value / (value + scale)
}
