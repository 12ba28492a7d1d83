package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/studiowebux/fitadmin/internal/config"
	"github.com/studiowebux/fitadmin/internal/types"
)

// Store holds the cached authentication state. It is created once and
// injected into the transport; all reads and writes go through its methods.
type Store struct {
	mu      sync.RWMutex
	session types.Session
	path    string // empty keeps the session in memory only
}

// NewStore creates a store persisted at path. An empty path keeps the
// session in memory.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewMemoryStore creates a store that is never written to disk
func NewMemoryStore() *Store {
	return &Store{}
}

// Open creates a store at path and loads any existing session from it
func Open(path string) (*Store, error) {
	s := NewStore(path)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenDefault opens the store at the configured session file path
func OpenDefault() (*Store, error) {
	return Open(config.GetSessionFilePath())
}

// Load reads the session file. A missing file yields an empty session.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.mu.Lock()
			s.session = types.Session{}
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var session types.Session
	if len(data) > 0 {
		if err := json.Unmarshal(data, &session); err != nil {
			return fmt.Errorf("failed to parse session file: %w", err)
		}
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return nil
}

// save writes the session to disk. Callers must hold the write lock.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// AccessToken returns the bearer token, or "" when signed out
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token.AccessToken
}

// RefreshToken returns the refresh token, or ""
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token.RefreshToken
}

// User returns a copy of the signed-in user, or nil
func (s *Store) User() *types.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User == nil {
		return nil
	}
	user := *s.session.User
	return &user
}

// IsAuthenticated reports whether an access token is held
func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// SetAuth stores the token and user returned by sign-in
func (s *Store) SetAuth(token types.UserToken, user *types.UserInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Token = token
	if user != nil {
		u := *user
		s.session.User = &u
	} else {
		s.session.User = nil
	}
	s.session.UpdatedAt = time.Now()
	return s.save()
}

// Clear drops the token and user info
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = types.Session{UpdatedAt: time.Now()}
	return s.save()
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.session
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// Path returns the session file path, "" for memory stores
func (s *Store) Path() string {
	return s.path
}
