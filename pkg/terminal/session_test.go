package terminal

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// openPTY returns a session on the replica side of a fresh pseudo-terminal
// together with the controller side.
func openPTY(t *testing.T) (*Session, *os.File) {
	t.Helper()

	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = ptmx.Close()
		_ = tty.Close()
	})

	s, err := New(tty)
	require.NoError(t, err)
	return s, ptmx
}

func TestNew_CapturesOriginalAttributes(t *testing.T) {
	s, _ := openPTY(t)

	current, err := s.Attributes()
	require.NoError(t, err)
	assert.Equal(t, *current, s.Original())
	assert.False(t, s.IsRaw())
}

func TestNew_NotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "plain"))
	require.NoError(t, err)
	defer f.Close()

	s, err := New(f)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrNotTerminal)
	assert.True(t, IsDeviceError(err))
}

func TestOpen_MissingDevice(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "missing-tty"))
	assert.Nil(t, f)
	require.Error(t, err)
	assert.True(t, IsDeviceError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetRawMode_ThenRestore(t *testing.T) {
	s, _ := openPTY(t)
	original := s.Original()

	require.NoError(t, s.SetRawMode())
	assert.True(t, s.IsRaw())

	raw, err := s.Attributes()
	require.NoError(t, err)
	assert.Zero(t, raw.Lflag&unix.ICANON, "canonical mode must be off")
	assert.Zero(t, raw.Lflag&unix.ECHO, "echo must be off")
	assert.Zero(t, raw.Lflag&unix.ISIG, "signal generation must be off")
	assert.Zero(t, raw.Oflag&unix.OPOST, "output processing must be off")
	assert.Zero(t, raw.Iflag&unix.ICRNL, "input translation must be off")
	assert.EqualValues(t, 1, raw.Cc[unix.VMIN])

	require.NoError(t, s.Restore())
	assert.False(t, s.IsRaw())

	restored, err := s.Attributes()
	require.NoError(t, err)
	assert.Equal(t, original, *restored)

	// A second restore re-applies the same attributes
	require.NoError(t, s.Restore())
	restored, err = s.Attributes()
	require.NoError(t, err)
	assert.Equal(t, original, *restored)
	assert.Equal(t, original, s.Original(), "saved attributes are never overwritten")
}

func TestEnterRawMode_Guard(t *testing.T) {
	s, _ := openPTY(t)

	guard, err := s.EnterRawMode()
	require.NoError(t, err)
	assert.True(t, s.IsRaw())

	_, err = s.EnterRawMode()
	assert.ErrorIs(t, err, ErrRawModeActive)

	require.NoError(t, guard.Release())
	require.NoError(t, guard.Release())
	assert.False(t, s.IsRaw())

	current, err := s.Attributes()
	require.NoError(t, err)
	assert.Equal(t, s.Original(), *current)

	// Released guard allows a new one
	guard, err = s.EnterRawMode()
	require.NoError(t, err)
	require.NoError(t, guard.Release())
}

func TestReadWrite_RawPassThrough(t *testing.T) {
	s, ptmx := openPTY(t)
	require.NoError(t, s.SetRawMode())
	defer s.Restore()

	frame := []byte("\x1b]52;c;aGVsbG8=\x07")
	_, err := ptmx.Write(frame)
	require.NoError(t, err)

	buf := make([]byte, 64)
	var got []byte
	for len(got) < len(frame) {
		n, err := s.Read(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, frame, got)

	n, err := s.Write([]byte("\x1b]52;;?\x1b\\"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestReadContext_Cancelled(t *testing.T) {
	s, _ := openPTY(t)
	require.NoError(t, s.SetRawMode())
	defer s.Restore()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	n, err := s.ReadContext(ctx, make([]byte, 16))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestReadContext_Data(t *testing.T) {
	s, ptmx := openPTY(t)
	require.NoError(t, s.SetRawMode())
	defer s.Restore()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := ptmx.Write([]byte("x"))
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, err := s.ReadContext(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, "x", string(buf[:n]))
}

func TestClose(t *testing.T) {
	s, _ := openPTY(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.SetRawMode(), ErrClosed)
	assert.ErrorIs(t, s.Restore(), ErrClosed)

	// Emergency path on a closed session is a no-op
	assert.NotPanics(t, s.EmergencyRestore)
}

func TestEmergencyRestore_LockHeld(t *testing.T) {
	s, _ := openPTY(t)
	require.NoError(t, s.SetRawMode())

	// Simulate a holder that never releases the lock
	s.mu.Lock()
	start := time.Now()
	s.EmergencyRestore()
	assert.GreaterOrEqual(t, time.Since(start), emergencyLockWait)
	s.mu.Unlock()

	current, err := s.Attributes()
	require.NoError(t, err)
	assert.Equal(t, s.Original(), *current)
}

func TestRestoreOnPanic(t *testing.T) {
	s, _ := openPTY(t)
	require.NoError(t, s.SetRawMode())

	assert.PanicsWithValue(t, "boom", func() {
		defer RestoreOnPanic(s)
		panic("boom")
	})

	current, err := s.Attributes()
	require.NoError(t, err)
	assert.Equal(t, s.Original(), *current)
}

func TestInstallEmergencyRestore_Signal(t *testing.T) {
	s, _ := openPTY(t)
	require.NoError(t, s.SetRawMode())

	codes := make(chan int, 1)
	exitFunc = func(code int) { codes <- code }
	defer func() { exitFunc = os.Exit }()

	stop := InstallEmergencyRestore(s)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))

	select {
	case code := <-codes:
		assert.Equal(t, 128+int(syscall.SIGHUP), code)
	case <-time.After(5 * time.Second):
		t.Fatal("signal handler did not run")
	}

	current, err := s.Attributes()
	require.NoError(t, err)
	assert.Equal(t, s.Original(), *current)
}

func TestInstallEmergencyRestore_StopIsIdempotent(t *testing.T) {
	s, _ := openPTY(t)

	stop := InstallEmergencyRestore(s)
	stop()
	assert.NotPanics(t, stop)
}
