// Package terminal owns the terminal device used to speak in-band escape
// sequence protocols such as OSC 52.
//
// A Session holds the device handle together with the attribute set captured
// when the session was created. That original set is never modified; every
// restoration re-applies it verbatim, which makes restoration idempotent.
//
// # LIFECYCLE
//
//	tty, err := terminal.Open("/dev/tty")
//	if err != nil {
//	    return err
//	}
//	session, err := terminal.New(tty)
//	if err != nil {
//	    tty.Close()
//	    return err
//	}
//	defer session.Close()
//
//	stop := terminal.InstallEmergencyRestore(session)
//	defer stop()
//	defer terminal.RestoreOnPanic(session)
//
//	guard, err := session.EnterRawMode()
//	if err != nil {
//	    return err
//	}
//	defer guard.Release()
//
// # RAW MODE
//
// Raw mode is derived from the original attributes: canonical processing,
// echo, signal generation and input/output translation are disabled, the
// character size is forced to 8 bits and reads return as soon as one byte is
// available. Only one RawModeGuard may be live per session.
//
// # EMERGENCY RESTORATION
//
// Restoration is attempted on every exit path:
//   - RawModeGuard.Release on normal and early returns
//   - RestoreOnPanic for panics unwinding through the caller
//   - InstallEmergencyRestore for SIGINT, SIGTERM, SIGHUP and SIGQUIT
//
// The emergency path waits a bounded time for the session lock. If the lock
// is still held (for example by a read blocked on the device) it restores
// without the lock: leaving the terminal raw is worse than a redundant
// restore. Failures on these paths are logged, never returned.
//
// # THREAD SAFETY
//
// All device access goes through the session mutex. Reads and writes are
// blocking; ReadContext polls the descriptor so a cancelled context ends a
// read that would otherwise wait forever.
package terminal
