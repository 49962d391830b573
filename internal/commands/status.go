package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/model"
	"taskboard/internal/store"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd sets a card's column directly, without the drag gesture.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Set a card's column" }
func (c *StatusCmd) Usage() string     { return "taskboard status <ref> <column>" }
func (c *StatusCmd) NeedsAuth() bool   { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	ref, used, err := ParseBoardRef(args)
	if err != nil {
		if errors.Is(err, ErrBoardRefRequired) {
			fmt.Fprintln(errOut, "error: card reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}
	rest := args[used:]
	if len(rest) == 0 {
		fmt.Fprintln(errOut, "error: destination column required")
		return exitcode.UserError
	}
	dest, err := model.ParseStatus(rest[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if dest == ref.Column {
		fmt.Fprintln(errOut, "error: card is already in that column")
		return exitcode.UserError
	}

	mgr, _, err := loadBoard(ctx, sess, st)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	task, err := ref.Resolve(mgr.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	mgr.UpdateStatus(ctx, task.ID, dest)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
