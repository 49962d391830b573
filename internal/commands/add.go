package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/model"
	"taskboard/internal/store"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	due      string
	desc     string
	priority string
	status   string
}

// SetFields sets the task fields (for testing).
func (c *AddCmd) SetFields(due, desc, priority, status string) {
	c.due = due
	c.desc = desc
	c.priority = priority
	c.status = status
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskboard add --due <YYYY-MM-DD> [--desc <text>] [--priority <level>] [--status <column>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.status, "status", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if c.due == "" {
		fmt.Fprintln(errOut, "error: due date required (--due YYYY-MM-DD)")
		return exitcode.UserError
	}
	if _, err := time.Parse(model.DueDateLayout, c.due); err != nil {
		fmt.Fprintf(errOut, "error: invalid due date: %s\n", c.due)
		return exitcode.UserError
	}

	draft := board.Draft{
		Title:       title,
		Description: c.desc,
		DueDate:     c.due,
	}
	if c.priority != "" {
		priority, err := model.ParsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		draft.Priority = priority
	}
	if c.status != "" {
		status, err := model.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		draft.Status = status
	}

	mgr, _, err := loadBoard(ctx, sess, st)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if _, err := mgr.Create(ctx, draft); err != nil {
		if errors.Is(err, board.ErrTitleRequired) || errors.Is(err, board.ErrDueDateRequired) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
