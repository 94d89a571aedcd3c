package terminal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// emergencyLockWait is how long the emergency path waits for the session lock
// before restoring without it.
const emergencyLockWait = 100 * time.Millisecond

// exitFunc terminates the process after a signal-triggered restore.
var exitFunc = os.Exit

// EmergencyRestore re-applies the original attributes from a context outside
// normal control flow. It never panics and never returns an error; failures
// are logged.
func (s *Session) EmergencyRestore() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Emergency terminal restore panicked")
		}
	}()

	if s.tryLock(emergencyLockWait) {
		defer s.mu.Unlock()
	} else {
		log.Warn().
			Str("device", s.path).
			Dur("waited", emergencyLockWait).
			Msg("Terminal lock still held, restoring attributes without it")
	}

	if s.closed.Load() {
		return
	}

	if err := unix.IoctlSetTermios(s.fd, ioctlWriteTermios, &s.original); err != nil {
		log.Error().Err(err).Str("device", s.path).Msg("Emergency terminal restore failed")
	}
}

// tryLock acquires the session lock if it becomes free within wait.
func (s *Session) tryLock(wait time.Duration) bool {
	deadline := time.Now().Add(wait)
	for {
		if s.mu.TryLock() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// RestoreOnPanic restores the session if the calling goroutine is panicking
// and then resumes the panic. It must be called directly by defer:
//
//	defer terminal.RestoreOnPanic(session)
func RestoreOnPanic(s *Session) {
	if r := recover(); r != nil {
		s.EmergencyRestore()
		panic(r)
	}
}

// InstallEmergencyRestore restores the session and exits with status 128+signo
// when the process receives SIGINT, SIGTERM, SIGHUP or SIGQUIT. The returned
// function uninstalls the handler; it is safe to call more than once.
func InstallEmergencyRestore(s *Session) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-done:
			return
		case sig := <-sigCh:
			log.Warn().Str("signal", sig.String()).Msg("Received signal, restoring terminal")
			s.EmergencyRestore()

			code := 1
			if signo, ok := sig.(syscall.Signal); ok {
				code = 128 + int(signo)
			}
			exitFunc(code)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
		})
	}
}
