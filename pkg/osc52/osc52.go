package osc52

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/notpeelz/osc52/pkg/base64"
)

const (
	// DefaultChunkSize is the most bytes requested from the device per read.
	DefaultChunkSize = 4096

	// maxEmptyReads is how many consecutive zero-byte reads without an error
	// are tolerated before giving up with io.ErrNoProgress.
	maxEmptyReads = 100
)

var (
	writePrefix = []byte("\x1b]52;;")
	terminator  = []byte("\x1b\\")
	queryFrame  = []byte("\x1b]52;;?\x1b\\")
)

// contextReader is implemented by devices whose reads can be interrupted.
type contextReader interface {
	ReadContext(ctx context.Context, p []byte) (int, error)
}

type flusher interface {
	Flush() error
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) {
	return f(p)
}

// Clipboard speaks OSC 52 over a terminal device. It keeps no state between
// operations.
type Clipboard struct {
	rw    io.ReadWriter
	chunk int
}

// Option configures a Clipboard.
type Option func(*Clipboard)

// WithChunkSize sets the most bytes requested from the device per read.
func WithChunkSize(n int) Option {
	return func(c *Clipboard) {
		if n > 0 {
			c.chunk = n
		}
	}
}

// New creates a Clipboard talking to rw, typically a *terminal.Session in raw mode.
func New(rw io.ReadWriter, opts ...Option) *Clipboard {
	c := &Clipboard{
		rw:    rw,
		chunk: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AppendWriteFrame appends the OSC 52 write request carrying data to dst.
func AppendWriteFrame(dst, data []byte) ([]byte, error) {
	dst = append(dst, writePrefix...)
	dst, err := base64.AppendEncode(dst, data)
	if err != nil {
		return nil, err
	}
	return append(dst, terminator...), nil
}

// Write replaces the clipboard content with data. The whole request is
// written with a single call.
func (c *Clipboard) Write(ctx context.Context, data []byte) error {
	frame, err := AppendWriteFrame(nil, data)
	if err != nil {
		return fmt.Errorf("osc52: encode clipboard: %w", err)
	}
	return c.send(ctx, frame)
}

// Clear empties the clipboard. It is a write of zero bytes.
func (c *Clipboard) Clear(ctx context.Context) error {
	return c.Write(ctx, nil)
}

// Read queries the terminal for the clipboard content and returns it decoded.
// An empty clipboard yields an empty slice.
func (c *Clipboard) Read(ctx context.Context) ([]byte, error) {
	if err := c.send(ctx, queryFrame); err != nil {
		return nil, err
	}

	encoded, err := c.await(ctx, NewScanner(), c.chunk)
	if err != nil {
		return nil, wrapAwaitError("read clipboard", err)
	}

	data, err := base64.Decode(string(encoded))
	if err != nil {
		return nil, &ProtocolError{Op: "decode clipboard", Err: err}
	}
	return data, nil
}

func (c *Clipboard) send(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.rw.Write(frame); err != nil {
		return fmt.Errorf("osc52: write request: %w", err)
	}

	if f, ok := c.rw.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("osc52: flush request: %w", err)
		}
	}
	return nil
}

// await reads from the device until sc matches, the stream ends or ctx is done.
func (c *Clipboard) await(ctx context.Context, sc *Scanner, chunk int) ([]byte, error) {
	r := c.reader(ctx)

	empty := 0
	for {
		n, err := sc.Fill(r, chunk)
		if n > 0 {
			empty = 0
			if m, ok := sc.Match(); ok {
				return m, nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoResponse
			}
			return nil, err
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return nil, io.ErrNoProgress
			}
		}
	}
}

func (c *Clipboard) reader(ctx context.Context) io.Reader {
	if cr, ok := c.rw.(contextReader); ok {
		return readerFunc(func(p []byte) (int, error) {
			return cr.ReadContext(ctx, p)
		})
	}

	return readerFunc(func(p []byte) (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return c.rw.Read(p)
	})
}

// wrapAwaitError classifies a failed response scan. A stream that ended is a
// protocol error; device and context errors keep their identity.
func wrapAwaitError(op string, err error) error {
	if errors.Is(err, ErrNoResponse) || errors.Is(err, io.ErrNoProgress) {
		return &ProtocolError{Op: op, Err: err}
	}
	return fmt.Errorf("osc52: %s: %w", op, err)
}
