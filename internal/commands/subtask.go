package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/store"
)

func init() {
	Register(&SubAddCmd{})
	Register(&SubToggleCmd{})
}

// SubAddCmd appends a subtask to a card's checklist.
type SubAddCmd struct{}

func (c *SubAddCmd) Name() string      { return "subadd" }
func (c *SubAddCmd) Aliases() []string { return nil }
func (c *SubAddCmd) Synopsis() string  { return "Add a subtask to a card" }
func (c *SubAddCmd) Usage() string     { return "taskboard subadd <ref> <title...>" }
func (c *SubAddCmd) NeedsAuth() bool   { return true }

func (c *SubAddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SubAddCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	ref, used, err := ParseBoardRef(args)
	if err != nil {
		if errors.Is(err, ErrBoardRefRequired) {
			fmt.Fprintln(errOut, "error: card reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}
	title := strings.Join(args[used:], " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: subtask title required")
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

	mgr.AddSubtask(ctx, task.ID, title)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// SubToggleCmd flips a subtask between completed and not.
type SubToggleCmd struct{}

func (c *SubToggleCmd) Name() string      { return "subtoggle" }
func (c *SubToggleCmd) Aliases() []string { return []string{"subdone"} }
func (c *SubToggleCmd) Synopsis() string  { return "Toggle a subtask's completion" }
func (c *SubToggleCmd) Usage() string     { return "taskboard subtoggle <ref> <subtask-number>" }
func (c *SubToggleCmd) NeedsAuth() bool   { return true }

func (c *SubToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SubToggleCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
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
		fmt.Fprintln(errOut, "error: subtask number required")
		return exitcode.UserError
	}
	num, err := strconv.Atoi(rest[0])
	if err != nil || num < 1 {
		fmt.Fprintf(errOut, "error: invalid subtask number: %s\n", rest[0])
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
	found := false
	for _, sub := range task.Subtasks {
		if sub.ID == num {
			found = true
			break
		}
	}
	if !found {
		fmt.Fprintf(errOut, "error: subtask number out of range: %d\n", num)
		return exitcode.UserError
	}

	mgr.ToggleSubtask(ctx, task.ID, num)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
