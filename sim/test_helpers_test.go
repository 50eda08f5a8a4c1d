package sim

import (
	"testing"

	"github.com/hospital-sim/hospital-sim/sim/internal/testutil"
)

// requireInvariantPanic runs fn and fails the test unless it panics with an
// *InvariantError. Returns the error for further inspection.
func requireInvariantPanic(t *testing.T, fn func()) *InvariantError {
	t.Helper()
	r := testutil.CatchPanic(t, fn)
	ie, ok := r.(*InvariantError)
	if !ok {
		t.Fatalf("expected *InvariantError panic, got %T: %v", r, r)
	}
	return ie
}
