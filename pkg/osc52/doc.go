// Package osc52 reads and writes the host terminal's clipboard with the OSC 52
// escape sequence.
//
// # WIRE FORMAT
//
//	write request   ESC ] 5 2 ; ; <base64> ESC \
//	clear request   ESC ] 5 2 ; ; ESC \
//	read query      ESC ] 5 2 ; ; ? ESC \
//	read response   ESC ] 5 2 ; [sel] ; <base64> <terminator>
//
// The response selector is an optional single word character (usually 'c').
// The terminator is any byte outside the base64 alphabet, in practice ST
// (ESC \) or BEL. Clearing is a write of zero bytes.
//
// # READING
//
// Read sends the query and accumulates device input in bounded chunks until
// the first complete response is found. Responses may arrive split across any
// number of reads. There is no built-in timeout: a terminal that never answers
// blocks Read until its context is done. Devices that implement
//
//	ReadContext(ctx context.Context, p []byte) (int, error)
//
// (such as *terminal.Session) are read through that method so cancellation
// also interrupts a blocked read; other readers only observe cancellation
// between reads.
//
// The device must be in raw mode while a read is in progress, otherwise the
// line discipline holds the response until a newline and echoes it back.
//
// # MODE PROBE
//
// QueryMode issues a DECRQM request (ESC [ ? <mode> $ p) and parses the DECRPM
// reply. SupportsOSC5522 uses it to detect the extended clipboard protocol.
// Basic OSC 52 support is assumed; it has no reliable query of its own.
package osc52
