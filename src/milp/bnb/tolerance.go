package bnb

import (
	"math"

	"golang.org/x/exp/constraints"
)

const eps = 1e-8

func almostEqual[T constraints.Float](a, b, tol T) bool {
	return math.Abs(float64(a-b)) < float64(tol)
}

// fractionality is the distance from v to the nearest integer.
func fractionality[T constraints.Float](v T) T {
	frac := v - T(math.Floor(float64(v)))
	return min(frac, 1-frac)
}

func nearestInt[T constraints.Float](v T) T {
	return T(math.Round(float64(v)))
}

// integerBounds shrinks [lo, hi] to the integers it contains, treating
// values within tol of an integer as that integer.
func integerBounds[T constraints.Float](lo, hi, tol T) (T, T) {
	return T(math.Ceil(float64(lo - tol))), T(math.Floor(float64(hi + tol)))
}
