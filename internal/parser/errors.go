package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when a data row has no token field.
	ErrMissingToken = errors.New("missing register token")
	// ErrMalformedToken is returned when a token is not a hex value, range or family.
	ErrMalformedToken = errors.New("malformed register token")
)

// LineError reports the input line that aborted an extraction
type LineError struct {
	Line int    // zero-based line index
	Text string // trimmed line text
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v\n  %s", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
