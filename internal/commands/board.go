package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/filter"
	"taskboard/internal/model"
	"taskboard/internal/output"
	"taskboard/internal/store"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd renders the kanban board. It is also the default command when
// taskboard is invoked with no arguments.
type BoardCmd struct {
	search   string
	status   string
	priority string
}

// SetCriteria sets the filter flags (for testing).
func (c *BoardCmd) SetCriteria(search, status, priority string) {
	c.search = search
	c.status = status
	c.priority = priority
}

func (c *BoardCmd) Name() string      { return "board" }
func (c *BoardCmd) Aliases() []string { return []string{"ls"} }
func (c *BoardCmd) Synopsis() string  { return "Show the kanban board" }
func (c *BoardCmd) Usage() string {
	return "taskboard board [--search <text>] [--status <column>] [--priority <level>]"
}
func (c *BoardCmd) NeedsAuth() bool { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	criteria, code := c.criteria(errOut)
	if code != exitcode.Success {
		return code
	}

	mgr, _, err := loadBoard(ctx, sess, st)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	visible := filter.Apply(mgr.Tasks(), criteria)
	if len(visible) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	columns := board.Columns(visible)
	for _, status := range model.ColumnOrder {
		output.FormatColumnHeader(out, status)
		for i, t := range columns[status] {
			output.FormatTask(out, i+1, t)
		}
	}
	return exitcode.Success
}

// criteria parses the filter flags into filter criteria.
func (c *BoardCmd) criteria(errOut io.Writer) (filter.Criteria, int) {
	criteria := filter.Criteria{Search: c.search}
	if c.status != "" {
		status, err := model.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return filter.Criteria{}, exitcode.UserError
		}
		criteria.Status = status
	}
	if c.priority != "" {
		priority, err := model.ParsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return filter.Criteria{}, exitcode.UserError
		}
		criteria.Priority = priority
	}
	return criteria, exitcode.Success
}
