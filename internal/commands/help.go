package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/store"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskboard help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskboard                                          Show the kanban board
  taskboard board [--search <text>] [--status <column>] [--priority <level>]
  taskboard add --due <YYYY-MM-DD> [--desc <text>] [--priority <level>] [--status <column>] <title...>
  taskboard show <ref>
  taskboard move <ref> <column>
  taskboard status <ref> <column>
  taskboard reorder <ref> <position>
  taskboard rm <ref>
  taskboard subadd <ref> <title...>
  taskboard subtoggle <ref> <subtask-number>
  taskboard log [--follow] [-n <count>]
  taskboard watch [--interval <duration>] [--console] [--once]
  taskboard login [--email <address>] [--google]
  taskboard signup [--email <address>]
  taskboard logout
  taskboard whoami
  taskboard theme [dark|light]
  taskboard help
  taskboard version

Cards are referenced by column letter and position: t1 is the first card
in todo, p2 the second in in-progress, c1 the first in completed.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
