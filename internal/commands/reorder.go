package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/store"
)

func init() {
	Register(&ReorderCmd{})
}

// ReorderCmd drags a card to a new position within its column.
type ReorderCmd struct{}

func (c *ReorderCmd) Name() string      { return "reorder" }
func (c *ReorderCmd) Aliases() []string { return nil }
func (c *ReorderCmd) Synopsis() string  { return "Move a card within its column" }
func (c *ReorderCmd) Usage() string     { return "taskboard reorder <ref> <position>" }
func (c *ReorderCmd) NeedsAuth() bool   { return true }

func (c *ReorderCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ReorderCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
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
		fmt.Fprintln(errOut, "error: destination position required")
		return exitcode.UserError
	}
	pos, err := strconv.Atoi(rest[0])
	if err != nil || pos < 1 {
		fmt.Fprintf(errOut, "error: invalid position: %s\n", rest[0])
		return exitcode.UserError
	}

	mgr, _, err := loadBoard(ctx, sess, st)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	tasks := mgr.Tasks()
	task, err := ref.Resolve(tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	column := board.Column(tasks, ref.Column)
	if pos > len(column) {
		fmt.Fprintf(errOut, "error: position out of range: %d\n", pos)
		return exitcode.UserError
	}

	mgr.ApplyDrag(ctx, tasks, board.DragResult{
		TaskID: task.ID,
		Source: board.Location{Column: ref.Column, Index: ref.Num - 1},
		Dest:   &board.Location{Column: ref.Column, Index: pos - 1},
	})

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
