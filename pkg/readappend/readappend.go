// Package readappend accumulates bytes from a reader in bounded chunks.
//
// Each call reserves spare capacity on the caller's buffer, performs exactly
// one Read into that spare region and commits only the bytes the reader
// reported, so previously buffered data is never read again or discarded.
package readappend

import (
	"errors"
	"io"
	"slices"
)

// ErrInvalidRead is returned when a reader reports more bytes than it was offered.
var ErrInvalidRead = errors.New("readappend: reader returned invalid count")

// ReadAppend performs one read of at most maxRead bytes from r and appends the
// result to buf. It returns the extended buffer and the number of bytes read.
//
// A count of zero means the reader had nothing to deliver for this call; the
// returned error (io.EOF or otherwise) is passed through unchanged so the
// caller decides whether the stream has ended.
func ReadAppend(r io.Reader, buf []byte, maxRead int) ([]byte, int, error) {
	if maxRead <= 0 {
		return buf, 0, nil
	}

	buf = slices.Grow(buf, maxRead)
	start := len(buf)

	n, err := r.Read(buf[start : start+maxRead])
	if n < 0 || n > maxRead {
		return buf, 0, ErrInvalidRead
	}

	return buf[:start+n], n, err
}
