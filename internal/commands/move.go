package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/model"
	"taskboard/internal/store"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd drags a card to another column. The card lands wherever the
// destination column places it; only its status changes.
type MoveCmd struct{}

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Move a card to another column" }
func (c *MoveCmd) Usage() string     { return "taskboard move <ref> <column>" }
func (c *MoveCmd) NeedsAuth() bool   { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
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
		fmt.Fprintln(errOut, "error: card is already in that column (use reorder to change position)")
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

	mgr.ApplyDrag(ctx, tasks, board.DragResult{
		TaskID: task.ID,
		Source: board.Location{Column: ref.Column, Index: ref.Num - 1},
		Dest:   &board.Location{Column: dest},
	})

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
