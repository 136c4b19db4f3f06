// Package session persists the authenticated user's credential between
// CLI invocations. The session file is the CLI's equivalent of the web
// dashboard's browser-local storage: written wholesale on login, read by
// every authenticated command, removed entirely on logout.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/repoaudit/repoaudit/pkg/audit"
)

// ErrNoSession is returned by Load when no session has been saved.
var ErrNoSession = errors.New("session: not signed in")

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore creates a store at the default location,
// $XDG_CONFIG_HOME/repoaudit/session.json (or the OS equivalent).
func NewStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("session: locating config dir: %w", err)
	}
	return NewStoreAt(filepath.Join(dir, "repoaudit", "session.json")), nil
}

// NewStoreAt creates a store backed by an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the saved session. Returns ErrNoSession when the file does
// not exist.
func (s *Store) Load() (audit.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return audit.Session{}, ErrNoSession
		}
		return audit.Session{}, fmt.Errorf("session: reading %s: %w", s.path, err)
	}

	var sess audit.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return audit.Session{}, fmt.Errorf("session: parsing %s: %w", s.path, err)
	}
	return sess, nil
}

// Save replaces the stored session wholesale. The file is created with
// 0600 since it holds a bearer token.
func (s *Store) Save(sess audit.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: writing %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the saved session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: removing %s: %w", s.path, err)
	}
	return nil
}

// ParseCallback extracts a session from the OAuth redirect URL the
// backend sends the browser to after login:
//
//	https://dashboard.example/callback?token=<credential>&user=<login>
func ParseCallback(rawURL string) (audit.Session, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return audit.Session{}, fmt.Errorf("session: parsing callback URL: %w", err)
	}

	q := u.Query()
	token := q.Get("token")
	if token == "" {
		return audit.Session{}, errors.New("session: callback URL carries no token")
	}

	return audit.Session{Token: token, User: q.Get("user")}, nil
}
