package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is the sentinel wrapped by every FormatError.
	ErrFormat = errors.New("dataset: malformed input")
	// ErrUnknownFormat is returned when a file name has no known extension.
	ErrUnknownFormat = errors.New("dataset: unknown file format")
)

// FormatError reports a malformed record.
type FormatError struct {
	Format string
	Record int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dataset: %s record %d: %s", e.Format, e.Record, e.Reason)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func formatError(format string, record int, reason string, args ...any) error {
	return &FormatError{Format: format, Record: record, Reason: fmt.Sprintf(reason, args...)}
}
