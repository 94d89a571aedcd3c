package cmd

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/notpeelz/osc52/pkg/config"
	"github.com/notpeelz/osc52/pkg/osc52"
	"github.com/notpeelz/osc52/pkg/terminal"
)

// withClipboard opens the configured terminal, switches it to raw mode and
// runs fn against the opened session. The terminal is restored before
// withClipboard returns, including when fn panics or the process is signalled.
func withClipboard(parent context.Context, c *config.Config, timeout time.Duration, fn func(context.Context, *terminal.Session, *osc52.Clipboard) error) error {
	session, err := terminal.OpenSession(c.TTY)
	if err != nil {
		return err
	}
	defer session.Close()

	stop := terminal.InstallEmergencyRestore(session)
	defer stop()
	defer terminal.RestoreOnPanic(session)

	guard, err := session.EnterRawMode()
	if err != nil {
		return err
	}
	defer guard.Release()

	log.Debug().
		Str("device", session.Path()).
		Dur("timeout", timeout).
		Int("chunk_size", c.ChunkSize).
		Msg("Terminal in raw mode")

	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return fn(ctx, session, osc52.New(session, osc52.WithChunkSize(c.ChunkSize)))
}
