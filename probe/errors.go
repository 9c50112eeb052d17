package probe

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when a probe file cannot be opened.
	ErrFileNotFound = errors.New("probe: file not found")
	// ErrShape is returned when array lengths disagree with T and N.
	ErrShape = errors.New("probe: inconsistent array shape")
)

// FormatError reports malformed probe file content.
type FormatError struct {
	// Line is the 1-based line number, or 0 when the error concerns the file
	// as a whole.
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return "probe: format error: " + e.Msg
	}

	return fmt.Sprintf("probe: format error at line %d: %s", e.Line, e.Msg)
}

func formatErrorf(line int, format string, args ...any) *FormatError {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func validateShape(steps, probes, velocities int) error {
	if want := 3 * steps * probes; velocities != want {
		return fmt.Errorf("%w: %d velocity values, want 3*%d*%d=%d",
			ErrShape, velocities, steps, probes, want)
	}

	return nil
}
