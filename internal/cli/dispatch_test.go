package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/store"
	"taskboard/internal/testutil"
)

// testFactory creates a store factory that returns the given FakeStore.
func testFactory(st *testutil.FakeStore) cli.StoreFactory {
	return func(ctx context.Context, cfg *config.Config, sess *firebase.Session) (store.Store, error) {
		return st, nil
	}
}

// configDir writes a config directory with project settings and a
// persisted session.
func configDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	project := `{"projectId": "demo-project", "apiKey": "demo-key"}`
	if err := os.WriteFile(filepath.Join(dir, config.ProjectFile), []byte(project), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", config.ProjectFile, err)
	}
	session := `{"uid":"user-1","email":"dev@example.com","idToken":"tok","refreshToken":"ref"}`
	if err := os.WriteFile(filepath.Join(dir, config.SessionFile), []byte(session), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", config.SessionFile, err)
	}
	return dir
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "taskboard 0.1.0\n" {
		t.Errorf("expected 'taskboard 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_AuthCommandWithoutSession(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	dir := t.TempDir()
	project := `{"projectId": "demo-project", "apiKey": "demo-key"}`
	if err := os.WriteFile(filepath.Join(dir, config.ProjectFile), []byte(project), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", config.ProjectFile, err)
	}

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"board", "--config", dir}, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: not logged in (run: taskboard login)\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_AuthCommandWithoutProject(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"board", "--config", dir}, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !bytes.Contains(stderr.Bytes(), []byte(config.ProjectFile)) {
		t.Errorf("expected error naming %s, got %q", config.ProjectFile, stderr.String())
	}
}

func TestDispatcher_BoardWithSession(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))
	dir := configDir(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"board", "--config", dir}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "no tasks found\n" {
		t.Errorf("expected 'no tasks found\\n', got %q", stdout.String())
	}
}

func TestDispatcher_NoArgsDefaultsToBoard(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	// No args parses no --config flag, so the default config dir is
	// checked; point XDG at an empty temp dir to keep the test hermetic.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !bytes.Contains(stderr.Bytes(), []byte(config.ProjectFile)) {
		t.Errorf("expected default board dispatch to hit the project check, got %q", stderr.String())
	}
}
