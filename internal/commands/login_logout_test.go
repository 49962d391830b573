package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
)

func runAuthCommand(t *testing.T, cmd commands.Command, dir string, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:   dir,
		Quiet: quiet,
	}
	code = cmd.Run(context.Background(), cfg, nil, nil, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func writeProject(t *testing.T, dir string) {
	t.Helper()
	project := `{"projectId": "demo-project", "apiKey": "demo-key"}`
	if err := os.WriteFile(filepath.Join(dir, config.ProjectFile), []byte(project), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", config.ProjectFile, err)
	}
}

func writeSession(t *testing.T, dir string) {
	t.Helper()
	session := `{"uid":"user-1","email":"dev@example.com","idToken":"tok","refreshToken":"ref"}`
	if err := os.WriteFile(filepath.Join(dir, config.SessionFile), []byte(session), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", config.SessionFile, err)
	}
}

// TestLoginCommand_NoProject verifies login fails without firebase.json
func TestLoginCommand_NoProject(t *testing.T) {
	cmd := &commands.LoginCmd{}

	stdout, stderr, code := runAuthCommand(t, cmd, t.TempDir(), nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr == "" {
		t.Error("expected error message about missing firebase.json")
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies login short-circuits on a
// valid persisted session
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	cmd := &commands.LoginCmd{}
	dir := t.TempDir()
	writeProject(t, dir)
	writeSession(t, dir)

	stdout, stderr, code := runAuthCommand(t, cmd, dir, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "already logged in as dev@example.com\n" {
		t.Errorf("expected already-logged-in message, got %q", stdout)
	}
}

// TestSignupCommand_PasswordMismatch verifies the mismatch is caught
// before anything is sent
func TestSignupCommand_PasswordMismatch(t *testing.T) {
	cmd := &commands.SignupCmd{}
	dir := t.TempDir()
	writeProject(t, dir)
	cmd.SetCredentials("dev@example.com", "hunter2", "hunter3")

	stdout, stderr, code := runAuthCommand(t, cmd, dir, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: passwords do not match\n" {
		t.Errorf("expected mismatch error, got %q", stderr)
	}
}

// TestLogoutCommand_RemovesSession verifies logout deletes only the
// session file
func TestLogoutCommand_RemovesSession(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	dir := t.TempDir()
	writeProject(t, dir)
	writeSession(t, dir)

	stdout, stderr, code := runAuthCommand(t, cmd, dir, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "logged out\n" {
		t.Errorf("expected 'logged out\\n', got %q", stdout)
	}

	if _, err := os.Stat(filepath.Join(dir, config.SessionFile)); !os.IsNotExist(err) {
		t.Error("session.json should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, config.ProjectFile)); err != nil {
		t.Error("firebase.json should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	stdout, stderr, code := runAuthCommand(t, cmd, t.TempDir(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", stdout)
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	stdout, stderr, code := runAuthCommand(t, cmd, t.TempDir(), nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

// TestWhoamiCommand_LoggedIn verifies whoami reads the persisted session
func TestWhoamiCommand_LoggedIn(t *testing.T) {
	cmd := &commands.WhoamiCmd{}
	dir := t.TempDir()
	writeSession(t, dir)

	stdout, stderr, code := runAuthCommand(t, cmd, dir, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "dev@example.com\n" {
		t.Errorf("expected email output, got %q", stdout)
	}
}

// TestWhoamiCommand_NotLoggedIn verifies whoami errors without a session
func TestWhoamiCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.WhoamiCmd{}

	stdout, stderr, code := runAuthCommand(t, cmd, t.TempDir(), nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: not logged in (run: taskboard login)\n" {
		t.Errorf("expected not-logged-in error, got %q", stderr)
	}
}

// TestThemeCommand_Default verifies the theme defaults to light
func TestThemeCommand_Default(t *testing.T) {
	cmd := &commands.ThemeCmd{}

	stdout, stderr, code := runAuthCommand(t, cmd, t.TempDir(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "light\n" {
		t.Errorf("expected 'light\\n', got %q", stdout)
	}
}

// TestThemeCommand_SetAndReadBack verifies the preference persists
func TestThemeCommand_SetAndReadBack(t *testing.T) {
	dir := t.TempDir()

	set := &commands.ThemeCmd{}
	stdout, stderr, code := runAuthCommand(t, set, dir, []string{"dark"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	get := &commands.ThemeCmd{}
	stdout, _, code = runAuthCommand(t, get, dir, nil, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "dark\n" {
		t.Errorf("expected 'dark\\n', got %q", stdout)
	}
}

// TestThemeCommand_Invalid verifies unknown themes are rejected
func TestThemeCommand_Invalid(t *testing.T) {
	cmd := &commands.ThemeCmd{}

	stdout, stderr, code := runAuthCommand(t, cmd, t.TempDir(), []string{"solarized"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: invalid theme: solarized\n" {
		t.Errorf("expected invalid theme error, got %q", stderr)
	}
}
