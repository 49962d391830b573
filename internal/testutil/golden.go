package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// Golden asserts that got matches the checked-in file
// testdata/<name>.golden. Setting the GOLDEN_UPDATE environment variable
// rewrites the file from got instead of comparing.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := goldenPath(name)
	if os.Getenv("GOLDEN_UPDATE") != "" {
		updateGolden(t, path, got)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("no golden file %s: %v\nGot:\n%s", path, err, got)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("%s does not match %s\nWant:\n%s\nGot:\n%s", name, path, want, got)
	}
}

// GoldenString is Golden for string output.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}

func goldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

func updateGolden(t *testing.T, path string, got []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, got, 0644); err != nil {
		t.Fatalf("failed to update %s: %v", path, err)
	}
}
