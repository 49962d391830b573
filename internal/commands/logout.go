package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/store"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Sign out" }
func (c *LogoutCmd) Usage() string     { return "taskboard logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	err := cfg.RemoveSession()
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(errOut, "error: failed to remove session: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "not logged in")
		} else {
			fmt.Fprintln(out, "logged out")
		}
	}
	return exitcode.Success
}
