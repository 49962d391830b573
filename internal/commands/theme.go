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

// darkModeKey is the preference key for the dark-mode flag.
const darkModeKey = "isDarkMode"

func init() {
	Register(&ThemeCmd{})
}

// ThemeCmd reads or sets the dark-mode preference. The preference lives
// only in the local key-value store; it never touches the backend.
type ThemeCmd struct{}

func (c *ThemeCmd) Name() string      { return "theme" }
func (c *ThemeCmd) Aliases() []string { return nil }
func (c *ThemeCmd) Synopsis() string  { return "Show or set the color theme" }
func (c *ThemeCmd) Usage() string     { return "taskboard theme [dark|light]" }
func (c *ThemeCmd) NeedsAuth() bool   { return false }

func (c *ThemeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ThemeCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	prefs, err := cfg.LoadPrefs()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if len(args) == 0 {
		theme := "light"
		if prefs[darkModeKey] == "true" {
			theme = "dark"
		}
		fmt.Fprintln(out, theme)
		return exitcode.Success
	}

	switch args[0] {
	case "dark":
		prefs[darkModeKey] = "true"
	case "light":
		prefs[darkModeKey] = "false"
	default:
		fmt.Fprintf(errOut, "error: invalid theme: %s\n", args[0])
		return exitcode.UserError
	}

	if err := cfg.SavePrefs(prefs); err != nil {
		fmt.Fprintf(errOut, "error: failed to save preferences: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
