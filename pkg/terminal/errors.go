package terminal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTerminal is returned when the handle does not refer to a terminal.
	ErrNotTerminal = errors.New("not a terminal")

	// ErrRawModeActive is returned when raw mode is requested while a RawModeGuard is live.
	ErrRawModeActive = errors.New("raw mode already active on this session")

	// ErrClosed is returned for operations on a closed session.
	ErrClosed = errors.New("terminal session closed")
)

// DeviceError reports a failure opening the terminal device or reading/writing
// its attributes.
type DeviceError struct {
	Op   string // e.g., "open", "get attributes", "set raw mode"
	Path string
	Err  error
}

func (e *DeviceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("terminal %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// IsDeviceError checks if an error is a DeviceError
func IsDeviceError(err error) bool {
	var e *DeviceError
	return errors.As(err, &e)
}
