package synctui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/versync/pkg/log"
	"github.com/macropower/versync/pkg/synccmd"
)

// SyncTUI wraps a [SyncCommander] with a Bubble Tea program that renders its
// progress events. It also redirects the default [slog.Logger] into the TUI,
// so log lines are drawn above the progress display instead of corrupting it.
type SyncTUI struct {
	pkg SyncCommander
	p   *tea.Program
	w   io.Writer
}

type SyncCommander interface {
	Sync(ctx context.Context) error
	Subscribe(f func(any))
}

func NewSyncTUI(w io.Writer, lvl slog.Level, pkg SyncCommander) *SyncTUI {
	c := &SyncTUI{
		pkg: pkg,
		w:   w,
	}

	c.pkg.Subscribe(c.broadcastEvent)

	slog.SetDefault(
		slog.New(log.CreateHandler(c, lvl, log.FormatText)),
	)

	return c
}

func (c *SyncTUI) broadcastEvent(evt any) {
	if c.p != nil {
		c.p.Send(evt)
	}
}

func (c *SyncTUI) Write(p []byte) (int, error) {
	c.broadcastEvent(teaMsgWriteLog(string(p)))

	return len(p), nil
}

func (c *SyncTUI) Subscribe(f func(any)) {
	c.pkg.Subscribe(f)
}

// Sync runs the wrapped sync under the TUI and returns its error, so exit
// codes reflect the sync result rather than the TUI lifecycle.
func (c *SyncTUI) Sync(ctx context.Context) error {
	c.p = tea.NewProgram(NewSyncModel(), tea.WithOutput(c.w))

	errCh := make(chan error, 1)

	go func() {
		err := c.pkg.Sync(ctx)
		errCh <- err
		c.broadcastEvent(synccmd.EventDone{Err: err})
	}()

	_, err := c.p.Run()
	if err != nil {
		return fmt.Errorf("failed to launch tui: %w", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	default:
		// The sync is still running; the user quit early.
	}

	return nil
}
