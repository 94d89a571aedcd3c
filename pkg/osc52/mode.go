package osc52

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// ModeOSC5522 is the private mode number of the extended clipboard protocol.
const ModeOSC5522 = 5522

// probeChunkSize is the read size used while waiting for a DECRPM reply.
const probeChunkSize = 128

// ModeStatus is the setting value of a DECRPM reply.
type ModeStatus int

const (
	ModeNotRecognized ModeStatus = iota
	ModeSet
	ModeReset
	ModePermanentlySet
	ModePermanentlyReset
)

func (m ModeStatus) String() string {
	switch m {
	case ModeNotRecognized:
		return "not recognized"
	case ModeSet:
		return "set"
	case ModeReset:
		return "reset"
	case ModePermanentlySet:
		return "permanently set"
	case ModePermanentlyReset:
		return "permanently reset"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Supported reports whether the terminal knows the mode and allows it to be set.
func (m ModeStatus) Supported() bool {
	return m != ModeNotRecognized && m != ModePermanentlyReset
}

// QueryMode asks the terminal for the state of a DEC private mode.
//
// A terminal that does not implement DECRQM never answers; callers should
// pass a context with a deadline.
func (c *Clipboard) QueryMode(ctx context.Context, mode int) (ModeStatus, error) {
	if mode < 0 {
		return ModeNotRecognized, fmt.Errorf("osc52: invalid mode %d", mode)
	}

	if err := c.send(ctx, fmt.Appendf(nil, "\x1b[?%d$p", mode)); err != nil {
		return ModeNotRecognized, err
	}

	pattern := regexp.MustCompile(`\x1b\[\?` + strconv.Itoa(mode) + `;(\d+)\$y`)

	code, err := c.await(ctx, newScanner(pattern), probeChunkSize)
	if err != nil {
		return ModeNotRecognized, wrapAwaitError("query mode", err)
	}

	n, err := strconv.Atoi(string(code))
	if err != nil {
		return ModeNotRecognized, &ProtocolError{Op: "query mode", Err: fmt.Errorf("DECRPM code %q is not a number: %w", code, err)}
	}
	return ModeStatus(n), nil
}

// SupportsOSC5522 reports whether the terminal implements the extended
// clipboard protocol.
func (c *Clipboard) SupportsOSC5522(ctx context.Context) (bool, error) {
	status, err := c.QueryMode(ctx, ModeOSC5522)
	if err != nil {
		return false, err
	}
	return status.Supported(), nil
}
