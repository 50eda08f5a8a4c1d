package sim

import "fmt"

// InvariantError reports a broken kernel invariant: a negative delay, a
// release of an unheld unit, a pool over capacity, a clock moving backwards.
// The kernel panics with it; it always indicates a defect in the model.
type InvariantError struct {
	Op  string
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("sim: invariant violated in %s: %s", e.Op, e.Msg)
}

// Violation builds an InvariantError. Domain packages panic with it so that
// every fatal model defect carries the same type.
func Violation(op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func invariant(op, format string, args ...any) {
	panic(Violation(op, format, args...))
}
