package lsh

import (
	"errors"
	"fmt"
)

var (
	// ErrSetup is matched by every error returned from table construction
	// and parameter validation.
	ErrSetup = errors.New("lsh: setup error")

	// ErrUsage is matched by every error caused by an invalid argument to a
	// method of a built table.
	ErrUsage = errors.New("lsh: usage error")

	// ErrUnknownFamily indicates that Parameters.Family is not a known hash family.
	ErrUnknownFamily = errors.New("unknown hash family")

	// ErrUnsupportedPointType indicates a point type without a registered
	// distance function and hash family.
	ErrUnsupportedPointType = errors.New("unsupported point type")

	// ErrInvalidParameter indicates a parameter outside its valid range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNoCandidates is returned by FindClosest when the probed buckets
	// contain no point.
	ErrNoCandidates = errors.New("lsh: no candidates found")

	// ErrIndexOutOfRange indicates a sparse query entry whose index lies
	// outside [0, dimension).
	ErrIndexOutOfRange = errors.New("lsh: sparse index out of range")
)

// SetupError describes a rejected construction parameter.
//
// errors.Is(err, ErrSetup) holds for every SetupError. The underlying cause
// (if any) can be accessed via errors.Unwrap.
type SetupError struct {
	Field  string
	Reason string
	cause  error
}

func (e *SetupError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("lsh: setup: %s", e.Reason)
	}
	return fmt.Sprintf("lsh: setup: %s: %s", e.Field, e.Reason)
}

func (e *SetupError) Unwrap() error { return e.cause }

// Is reports whether target is ErrSetup.
func (e *SetupError) Is(target error) bool { return target == ErrSetup }

func setupError(field string, cause error, format string, args ...any) *SetupError {
	return &SetupError{Field: field, Reason: fmt.Sprintf(format, args...), cause: cause}
}

// UsageError describes an invalid argument to a query-time method.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("lsh: %s: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrUsage.
func (e *UsageError) Is(target error) bool { return target == ErrUsage }

// ErrDimensionMismatch indicates a query whose dimensionality differs from
// the table's.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("lsh: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
