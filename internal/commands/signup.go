package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/store"
)

func init() {
	Register(&SignupCmd{})
}

// SignupCmd creates a new email/password account. The password is asked
// for twice; a mismatch aborts before anything is sent.
type SignupCmd struct {
	email    string
	password string
	confirm  string
}

// SetCredentials sets the credentials (for testing).
func (c *SignupCmd) SetCredentials(email, password, confirm string) {
	c.email = email
	c.password = password
	c.confirm = confirm
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return nil }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string     { return "taskboard signup [--email <address>] [common flags]" }
func (c *SignupCmd) NeedsAuth() bool   { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.confirm, "confirm", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	if !cfg.HasProject() {
		printProjectHelp(errOut, cfg)
		return exitcode.AuthError
	}
	project, err := cfg.LoadProject()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	email := strings.TrimSpace(c.email)
	if email == "" {
		fmt.Fprint(errOut, "Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintln(errOut, "error: email required")
			return exitcode.UserError
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}

	password := c.password
	if password == "" {
		password, err = readPassword(errOut, "Password: ")
		if err != nil || password == "" {
			fmt.Fprintln(errOut, "error: password required")
			return exitcode.UserError
		}
	}
	confirm := c.confirm
	if confirm == "" {
		confirm, err = readPassword(errOut, "Confirm password: ")
		if err != nil {
			fmt.Fprintln(errOut, "error: password confirmation required")
			return exitcode.UserError
		}
	}
	if password != confirm {
		fmt.Fprintln(errOut, "error: passwords do not match")
		return exitcode.UserError
	}

	auth, err := firebase.NewAuthClient(ctx, project.APIKey)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	session, err := auth.SignUp(ctx, email, password)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := firebase.SaveSession(cfg.SessionPath(), &session); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "account created, logged in as %s\n", session.Email)
	}
	return exitcode.Success
}
