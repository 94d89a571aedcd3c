package terminal

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// DefaultDevice is the controlling terminal of the process.
const DefaultDevice = "/dev/tty"

// pollInterval bounds how long ReadContext waits before re-checking its context.
const pollInterval = 100 * time.Millisecond

// Open opens the terminal device at path for reading and writing. An empty
// path opens DefaultDevice, which fails when the process has no controlling
// terminal.
func Open(path string) (*os.File, error) {
	if path == "" {
		path = DefaultDevice
	}

	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, &DeviceError{Op: "open", Path: path, Err: err}
	}
	return f, nil
}

// Session is exclusive ownership of one terminal device plus the attribute
// set captured at construction.
type Session struct {
	// mu guards the device handle and the raw-mode flags
	mu sync.Mutex

	tty  *os.File
	fd   int
	path string

	// original is written once in New and only read afterwards
	original unix.Termios

	raw     bool
	guarded bool
	closed  atomic.Bool
}

// New captures the current attributes of tty and returns a Session owning it.
//
// Returns an error if tty is not a terminal or its attributes cannot be read.
// The caller keeps ownership of tty when New fails.
func New(tty *os.File) (*Session, error) {
	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, &DeviceError{Op: "get attributes", Path: tty.Name(), Err: ErrNotTerminal}
	}

	attrs, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, &DeviceError{Op: "get attributes", Path: tty.Name(), Err: err}
	}

	return &Session{
		tty:      tty,
		fd:       fd,
		path:     tty.Name(),
		original: *attrs,
	}, nil
}

// OpenSession opens the device at path and creates a Session for it.
func OpenSession(path string) (*Session, error) {
	tty, err := Open(path)
	if err != nil {
		return nil, err
	}

	s, err := New(tty)
	if err != nil {
		_ = tty.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the device path of the session.
func (s *Session) Path() string {
	return s.path
}

// Original returns a copy of the attributes captured at construction.
func (s *Session) Original() unix.Termios {
	return s.original
}

// Attributes queries the attributes currently applied to the device.
func (s *Session) Attributes() (*unix.Termios, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrClosed
	}

	attrs, err := unix.IoctlGetTermios(s.fd, ioctlReadTermios)
	if err != nil {
		return nil, &DeviceError{Op: "get attributes", Path: s.path, Err: err}
	}
	return attrs, nil
}

// IsRaw reports whether raw mode has been applied and not yet restored.
func (s *Session) IsRaw() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// SetRawMode applies the raw attribute set derived from the original attributes.
func (s *Session) SetRawMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRawLocked()
}

func (s *Session) setRawLocked() error {
	if s.closed.Load() {
		return ErrClosed
	}

	raw := makeRaw(s.original)
	if err := unix.IoctlSetTermios(s.fd, ioctlWriteTermios, &raw); err != nil {
		return &DeviceError{Op: "set raw mode", Path: s.path, Err: err}
	}
	s.raw = true
	return nil
}

// Restore re-applies the original attributes. It is safe to call any number
// of times; each call applies the same saved set.
func (s *Session) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoreLocked()
}

func (s *Session) restoreLocked() error {
	if s.closed.Load() {
		return ErrClosed
	}

	if err := unix.IoctlSetTermios(s.fd, ioctlWriteTermios, &s.original); err != nil {
		return &DeviceError{Op: "restore attributes", Path: s.path, Err: err}
	}
	s.raw = false
	return nil
}

// Read reads from the device, blocking until data is available.
func (s *Session) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return 0, ErrClosed
	}
	return s.tty.Read(p)
}

// Write writes p to the device in a single call.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return 0, ErrClosed
	}
	return s.tty.Write(p)
}

// ReadContext reads from the device like Read but returns ctx.Err() once ctx
// is done. Contexts that can never be cancelled fall through to a plain Read.
func (s *Session) ReadContext(ctx context.Context, p []byte) (int, error) {
	if ctx.Done() == nil {
		return s.Read(p)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		ready, err := s.poll(pollInterval)
		if err != nil {
			return 0, err
		}
		if ready {
			return s.Read(p)
		}
	}
}

// poll waits up to timeout for the device to become readable.
func (s *Session) poll(timeout time.Duration) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}

	fds := []unix.PollFd{
		{Fd: int32(s.fd), Events: unix.POLLIN},
	}

	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, &DeviceError{Op: "poll", Path: s.path, Err: err}
	}
	return n > 0, nil
}

// Close releases the device handle. Attributes are not restored by Close.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Swap(true) {
		return nil
	}
	return s.tty.Close()
}

// makeRaw derives the raw attribute set the same way cfmakeraw(3) does.
func makeRaw(t unix.Termios) unix.Termios {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return t
}
