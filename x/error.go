package x

// This file holds the error taxonomy shared by the geometry packages.
// Two kinds of failure are returned to callers:
// (1) ErrInvalidArgument, for inputs a computation cannot accept (an empty
//     envelope on insert, a non-positive scale factor, a non-finite axis).
// (2) ErrNonConvergence, when an iterative method runs out of iterations.
// Both are wrapped with errors.Wrapf so the caller gets context and a stack,
// and are matched with errors.Is.
//
// Broken internal invariants are not errors. Use AssertTrue / AssertTruef,
// which panic.

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when an input is outside the domain of
	// the operation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNonConvergence is returned when an iterative computation exceeds its
	// iteration cap.
	ErrNonConvergence = errors.New("failed to converge")
)

// InvalidArgf wraps ErrInvalidArgument with extra info.
func InvalidArgf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// NonConvergencef wraps ErrNonConvergence with extra info.
func NonConvergencef(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNonConvergence, format, args...)
}

// AssertTrue asserts that b is true. Otherwise it panics.
func AssertTrue(b bool) {
	if !b {
		panic(errors.Errorf("Assert failed"))
	}
}

// AssertTruef is AssertTrue with extra info.
func AssertTruef(b bool, format string, args ...interface{}) {
	if !b {
		panic(errors.Errorf(format, args...))
	}
}

// Check panics if err != nil. Only for errors that cannot happen with valid
// internal state.
func Check(err error) {
	if err != nil {
		panic(errors.Wrap(err, ""))
	}
}
