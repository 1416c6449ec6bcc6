// Package session holds the live credential state for both stores.
// The state is loaded once at startup through an injected persistence port
// and written back after every mutation, so configuration survives across
// runs without an explicit save step.
package session

import (
	"sync"

	"github.com/cloudmigrate/drive2blob/internal/models"
)

// Snapshot is the persisted shape of the session.
type Snapshot struct {
	Drive models.DriveCredentials
	Azure models.AzureConfig

	// RememberToken controls whether the pasted Drive access token is
	// persisted. Off by default: tokens are short-lived and end up in a
	// plain config file otherwise.
	RememberToken bool
}

// Store is the persistence port. The concrete mechanism (INI file, env
// overlay) lives outside this package.
type Store interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// Session is the single mutable credential holder. All reads and writes go
// through it; the transfer engine reads it before every source fetch and
// clears the Drive token when an adapter reports the credential expired.
type Session struct {
	mu    sync.RWMutex
	state Snapshot
	store Store
}

// New loads the persisted state through store and returns the session.
// A load failure surfaces to the caller; a fresh session with empty state is
// still usable for same-process configuration.
func New(store Store) (*Session, error) {
	s := &Session{store: store}
	if store == nil {
		return s, nil
	}
	state, err := store.Load()
	if err != nil {
		return s, err
	}
	s.state = state
	return s, nil
}

// Drive returns the current Drive credentials.
func (s *Session) Drive() models.DriveCredentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Drive
}

// Azure returns the current Azure destination descriptor.
func (s *Session) Azure() models.AzureConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Azure
}

// SetDriveApp updates the OAuth client ID and API key.
func (s *Session) SetDriveApp(clientID, apiKey string) error {
	s.mu.Lock()
	s.state.Drive.ClientID = clientID
	s.state.Drive.APIKey = apiKey
	s.mu.Unlock()
	return s.persist()
}

// SetDriveToken stores a freshly obtained bearer token. The session does not
// care how it was produced (consent flow, manual paste, cached value).
func (s *Session) SetDriveToken(token string, remember bool) error {
	s.mu.Lock()
	s.state.Drive.AccessToken = token
	s.state.RememberToken = remember
	s.mu.Unlock()
	return s.persist()
}

// ClearDriveToken drops the stored token. Called by the engine when a store
// reports the credential expired, forcing re-authentication before the next
// run.
func (s *Session) ClearDriveToken() error {
	s.mu.Lock()
	s.state.Drive.AccessToken = ""
	s.mu.Unlock()
	return s.persist()
}

// SetAzure updates the destination descriptor.
func (s *Session) SetAzure(cfg models.AzureConfig) error {
	s.mu.Lock()
	s.state.Azure = cfg
	s.mu.Unlock()
	return s.persist()
}

// Snapshot returns a copy of the full state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) persist() error {
	if s.store == nil {
		return nil
	}
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	if !state.RememberToken {
		state.Drive.AccessToken = ""
	}
	return s.store.Save(state)
}
