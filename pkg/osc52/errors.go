package osc52

import (
	"errors"
	"fmt"
)

// ErrNoResponse is returned when the device stream ends before a complete
// response was received.
var ErrNoResponse = errors.New("stream ended before a response was received")

// ProtocolError reports a missing or malformed terminal response.
type ProtocolError struct {
	Op  string // e.g., "read clipboard", "decode clipboard", "query mode"
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("osc52: %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// IsProtocolError checks if an error is a ProtocolError
func IsProtocolError(err error) bool {
	var e *ProtocolError
	return errors.As(err, &e)
}
