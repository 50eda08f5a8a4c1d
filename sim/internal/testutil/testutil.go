// Package testutil provides shared test infrastructure for the simulator.
// It consolidates assertion helpers used across sim/ and its sub-package tests.
package testutil

import (
	"math"
	"testing"
)

// CatchPanic runs fn and returns the value it panicked with. The test fails
// if fn returns normally.
func CatchPanic(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatal("expected a panic, got none")
		}
	}()
	fn()
	return nil
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
