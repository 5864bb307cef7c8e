package future

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled is the failure a future resolves to when its
	// cancellation token cancels before the operation completes.
	ErrCancelled = errors.New("future: operation cancelled")

	// ErrResultType is the failure a future resolves to when collapsing
	// a nested future whose result value can't be converted to the outer
	// future's type.
	ErrResultType = errors.New("future: nested future result type mismatch")

	// ErrNilFailure replaces a nil error passed to TrySetFailure, so a
	// failed future always carries a non-nil failure.
	ErrNilFailure = errors.New("future: failure set with nil error")
)

// panic messages
const nilCallbackPanicMsg = "future: the provided callback is nil"

// PanicError wraps a panic that happened inside a continuation callback.
// The continuation's future resolves to a failure holding it, so a panic
// propagates through a chain the same way a failure does, and can be
// handled by a Catch.
type PanicError struct {
	v any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("future: callback panicked: %v", e.v)
}

// Value returns the value the callback panicked with.
func (e *PanicError) Value() any {
	return e.v
}
