package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/activity"
	"taskboard/internal/backend/firebase"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/model"
	"taskboard/internal/output"
	"taskboard/internal/store"
)

func init() {
	Register(&LogCmd{})
}

// LogCmd prints the activity log, newest-first. With --follow it holds a
// live subscription and reprints the log on every change.
type LogCmd struct {
	follow bool
	limit  int
}

// SetFollow sets the follow flag (for testing).
func (c *LogCmd) SetFollow(follow bool) {
	c.follow = follow
}

func (c *LogCmd) Name() string      { return "log" }
func (c *LogCmd) Aliases() []string { return []string{"activity"} }
func (c *LogCmd) Synopsis() string  { return "Show the activity log" }
func (c *LogCmd) Usage() string     { return "taskboard log [--follow] [-n <count>]" }
func (c *LogCmd) NeedsAuth() bool   { return true }

func (c *LogCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.follow, "follow", false, "")
	fs.BoolVar(&c.follow, "f", false, "")
	fs.IntVar(&c.limit, "n", 0, "")
}

func (c *LogCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	al := activity.NewLogger(st)

	if c.follow {
		return c.runFollow(ctx, al, out, errOut)
	}

	entries, err := al.Recent(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	c.print(out, cfg, entries)
	return exitcode.Success
}

// runFollow replaces the printed log with each delivered snapshot until
// the context ends.
func (c *LogCmd) runFollow(ctx context.Context, al *activity.Logger, out, errOut io.Writer) int {
	watcher, err := al.Watch(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	defer watcher.Stop()

	for {
		entries, err := watcher.Next()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return exitcode.Success
			}
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
		for _, e := range entries {
			output.FormatLogEntry(out, e)
		}
		fmt.Fprintln(out)
	}
}

func (c *LogCmd) print(out io.Writer, cfg *config.Config, entries []model.ActivityEntry) {
	if len(entries) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no activities to display")
		}
		return
	}
	shown := entries
	if c.limit > 0 && c.limit < len(shown) {
		shown = shown[:c.limit]
	}
	for _, e := range shown {
		output.FormatLogEntry(out, e)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "total activities: %d\n", len(entries))
	}
}
