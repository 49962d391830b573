package firebase

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Session is the persisted outcome of a sign-in. The ID token is the
// bearer credential for the document store; the refresh token outlives it.
type Session struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName,omitempty"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	Expiry       time.Time `json:"expiry"`
}

// LoadSession reads a session file.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("invalid session file: %w", err)
	}
	if sess.UID == "" || sess.RefreshToken == "" {
		return nil, fmt.Errorf("invalid session file: missing credentials")
	}
	return &sess, nil
}

// SaveSession writes a session file with mode 0600.
func SaveSession(path string, sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
