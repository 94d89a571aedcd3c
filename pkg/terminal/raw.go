package terminal

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// RawModeGuard represents raw mode being active on a Session. Releasing it
// restores the original attributes.
type RawModeGuard struct {
	session *Session
	once    sync.Once
	err     error
}

// EnterRawMode switches the session to raw mode and returns a guard whose
// Release restores the original attributes. Returns ErrRawModeActive when a
// previous guard has not been released.
func (s *Session) EnterRawMode() (*RawModeGuard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guarded {
		return nil, ErrRawModeActive
	}
	if err := s.setRawLocked(); err != nil {
		return nil, err
	}
	s.guarded = true

	return &RawModeGuard{session: s}, nil
}

// Release restores the original attributes. Only the first call touches the
// device; later calls return the first result. A failure is logged as well as
// returned so deferred callers may ignore it.
func (g *RawModeGuard) Release() error {
	g.once.Do(func() {
		s := g.session

		s.mu.Lock()
		defer s.mu.Unlock()

		s.guarded = false
		g.err = s.restoreLocked()
		if g.err != nil {
			log.Error().Err(g.err).Str("device", s.path).Msg("Failed to restore terminal attributes")
		}
	})
	return g.err
}
