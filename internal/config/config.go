// Package config handles XDG configuration directory and file paths.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "taskboard"

	// ProjectFile holds the Firebase project settings.
	ProjectFile = "firebase.json"

	// OAuthClientFile is the OAuth client credentials filename, needed
	// only for federated Google sign-in.
	OAuthClientFile = "oauth_client.json"

	// SessionFile is the persisted sign-in session filename.
	SessionFile = "session.json"

	// PrefsFile holds local UI preferences. Not authoritative; losing it
	// loses only preferences.
	PrefsFile = "prefs.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// Project identifies the hosted backend: the Firestore project and the
// web API key the identity endpoints require.
type Project struct {
	ProjectID string `json:"projectId"`
	APIKey    string `json:"apiKey"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskboard or
// $HOME/.config/taskboard.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ProjectPath returns the path to the project settings file.
func (c *Config) ProjectPath() string {
	return filepath.Join(c.Dir, ProjectFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// SessionPath returns the path to the persisted session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// PrefsPath returns the path to the preferences file.
func (c *Config) PrefsPath() string {
	return filepath.Join(c.Dir, PrefsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasProject checks if the project settings file exists.
func (c *Config) HasProject() bool {
	_, err := os.Stat(c.ProjectPath())
	return err == nil
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}

// LoadProject reads the project settings file.
func (c *Config) LoadProject() (Project, error) {
	data, err := os.ReadFile(c.ProjectPath())
	if err != nil {
		return Project{}, fmt.Errorf("failed to read %s: %w", ProjectFile, err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("invalid %s: %w", ProjectFile, err)
	}
	if p.ProjectID == "" || p.APIKey == "" {
		return Project{}, fmt.Errorf("invalid %s: projectId and apiKey are required", ProjectFile)
	}
	return p, nil
}

// Prefs is the local key-value preference store.
type Prefs map[string]string

// LoadPrefs reads the preferences file. A missing file is an empty store.
func (c *Config) LoadPrefs() (Prefs, error) {
	data, err := os.ReadFile(c.PrefsPath())
	if os.IsNotExist(err) {
		return Prefs{}, nil
	}
	if err != nil {
		return nil, err
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", PrefsFile, err)
	}
	return p, nil
}

// SavePrefs writes the preferences file.
func (c *Config) SavePrefs(p Prefs) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.PrefsPath(), data, 0644)
}
