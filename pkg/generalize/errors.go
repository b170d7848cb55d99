package generalize

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument reports malformed input: λ or a proximity degree
	// outside [0,1], a relation referencing a missing argument position, an
	// arity conflict, or a non-ground input term.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvariantViolation reports a failed internal assertion. It
	// indicates a bug rather than bad input.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrBranchLimit is returned when a solve creates more configurations
	// than Options.MaxBranches allows.
	ErrBranchLimit = errors.New("branch limit exceeded")
)

// invariantViolation is panicked inside the engine and turned back into an
// error wrapping ErrInvariantViolation at the Run boundary.
type invariantViolation string

func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(invariantViolation(fmt.Sprintf(format, args...)))
	}
}

// recoverInvariant converts an invariantViolation panic into *err. Other
// panics are re-raised.
func recoverInvariant(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if iv, ok := r.(invariantViolation); ok {
		*err = errors.Wrap(ErrInvariantViolation, string(iv))
		return
	}
	panic(r)
}
