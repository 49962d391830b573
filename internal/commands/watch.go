package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/monitor"
	"taskboard/internal/notify"
	"taskboard/internal/store"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd runs the due-date monitor: an immediate sweep, then one per
// interval, raising desktop notifications for soon-due and overdue cards.
type WatchCmd struct {
	interval time.Duration
	console  bool
	once     bool
}

// SetOnce makes the command sweep a single time and exit (for testing).
func (c *WatchCmd) SetOnce(once bool) {
	c.once = once
}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Watch due dates and notify" }
func (c *WatchCmd) Usage() string {
	return "taskboard watch [--interval <duration>] [--console] [--once]"
}
func (c *WatchCmd) NeedsAuth() bool { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.interval, "interval", monitor.DefaultInterval, "")
	fs.BoolVar(&c.console, "console", false, "")
	fs.BoolVar(&c.once, "once", false, "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	if c.interval <= 0 {
		fmt.Fprintf(errOut, "error: invalid interval: %s\n", c.interval)
		return exitcode.UserError
	}

	mgr, al, err := loadBoard(ctx, sess, st)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	var notifier monitor.Notifier = notify.Desktop{}
	if c.console {
		notifier = notify.Writer{W: out}
	}
	mon := monitor.New(mgr, al, notifier)
	mon.Interval = c.interval

	if c.once {
		mon.Sweep(ctx)
		return exitcode.Success
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "watching due dates every %s\n", c.interval)
	}
	if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
