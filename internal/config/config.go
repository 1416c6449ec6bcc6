// Package config persists session state to an INI file with an environment
// overlay, implementing the session.Store port.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\drive2blob\config
//   - Unix: ~/.config/drive2blob/config
//
// INI format:
//
//	[google]
//	client_id = 123456-abcde.apps.googleusercontent.com
//	api_key = AIzaSyD...
//	access_token =
//
//	[azure]
//	account_name = mystorageacct
//	container_name = migration-target
//	sas_token = sv=...&sig=...
//
//	[session]
//	remember_token = false
//
// Environment variables (optionally via a .env file in the working
// directory) override file values on load:
//
//	DRIVE2BLOB_GOOGLE_CLIENT_ID, DRIVE2BLOB_GOOGLE_API_KEY,
//	DRIVE2BLOB_GOOGLE_ACCESS_TOKEN, DRIVE2BLOB_AZURE_ACCOUNT,
//	DRIVE2BLOB_AZURE_CONTAINER, DRIVE2BLOB_AZURE_SAS_TOKEN
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"

	"github.com/cloudmigrate/drive2blob/internal/constants"
	"github.com/cloudmigrate/drive2blob/internal/session"
)

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	var configDir string

	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		configDir = filepath.Join(userProfile, ".config", constants.ConfigDirName)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", constants.ConfigDirName)
	}
	return filepath.Join(configDir, "config"), nil
}

type googleSection struct {
	ClientID    string `ini:"client_id"`
	APIKey      string `ini:"api_key"`
	AccessToken string `ini:"access_token"`
}

type azureSection struct {
	AccountName   string `ini:"account_name"`
	ContainerName string `ini:"container_name"`
	SASToken      string `ini:"sas_token"`
}

type sessionSection struct {
	RememberToken bool `ini:"remember_token"`
}

// INIStore persists session snapshots to an INI file. Implements
// session.Store.
type INIStore struct {
	Path string

	// SkipEnv disables the .env/environment overlay; used by tests that need
	// deterministic file-only behavior.
	SkipEnv bool
}

// NewINIStore creates a store for the given path, or the default path when
// path is empty.
func NewINIStore(path string) (*INIStore, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &INIStore{Path: path}, nil
}

// Load reads the file (a missing file yields an empty snapshot) and applies
// the environment overlay.
func (s *INIStore) Load() (session.Snapshot, error) {
	var snap session.Snapshot

	cfg, err := ini.Load(s.Path)
	if err == nil {
		var g googleSection
		var a azureSection
		var sess sessionSection
		if err := cfg.Section("google").MapTo(&g); err != nil {
			return snap, fmt.Errorf("failed to parse [google] section: %w", err)
		}
		if err := cfg.Section("azure").MapTo(&a); err != nil {
			return snap, fmt.Errorf("failed to parse [azure] section: %w", err)
		}
		if err := cfg.Section("session").MapTo(&sess); err != nil {
			return snap, fmt.Errorf("failed to parse [session] section: %w", err)
		}
		snap.Drive.ClientID = g.ClientID
		snap.Drive.APIKey = g.APIKey
		snap.Drive.AccessToken = g.AccessToken
		snap.Azure.AccountName = a.AccountName
		snap.Azure.ContainerName = a.ContainerName
		snap.Azure.SASToken = a.SASToken
		snap.RememberToken = sess.RememberToken
	} else if !os.IsNotExist(err) {
		return snap, fmt.Errorf("failed to load config %s: %w", s.Path, err)
	}

	if !s.SkipEnv {
		applyEnvOverlay(&snap)
	}
	return snap, nil
}

// Save writes the snapshot back to the file with owner-only permissions
// (the file holds tokens).
func (s *INIStore) Save(snap session.Snapshot) error {
	cfg := ini.Empty()

	g := googleSection{
		ClientID:    snap.Drive.ClientID,
		APIKey:      snap.Drive.APIKey,
		AccessToken: snap.Drive.AccessToken,
	}
	a := azureSection{
		AccountName:   snap.Azure.AccountName,
		ContainerName: snap.Azure.ContainerName,
		SASToken:      snap.Azure.SASToken,
	}
	sess := sessionSection{RememberToken: snap.RememberToken}

	if err := cfg.Section("google").ReflectFrom(&g); err != nil {
		return fmt.Errorf("failed to build [google] section: %w", err)
	}
	if err := cfg.Section("azure").ReflectFrom(&a); err != nil {
		return fmt.Errorf("failed to build [azure] section: %w", err)
	}
	if err := cfg.Section("session").ReflectFrom(&sess); err != nil {
		return fmt.Errorf("failed to build [session] section: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := cfg.SaveTo(s.Path); err != nil {
		return fmt.Errorf("failed to save config %s: %w", s.Path, err)
	}
	return os.Chmod(s.Path, 0o600)
}

// applyEnvOverlay lets environment variables (and a .env file, if present)
// override persisted values. .env load failures are ignored: the file is
// optional.
func applyEnvOverlay(snap *session.Snapshot) {
	_ = godotenv.Load()

	if v := os.Getenv("DRIVE2BLOB_GOOGLE_CLIENT_ID"); v != "" {
		snap.Drive.ClientID = v
	}
	if v := os.Getenv("DRIVE2BLOB_GOOGLE_API_KEY"); v != "" {
		snap.Drive.APIKey = v
	}
	if v := os.Getenv("DRIVE2BLOB_GOOGLE_ACCESS_TOKEN"); v != "" {
		snap.Drive.AccessToken = v
	}
	if v := os.Getenv("DRIVE2BLOB_AZURE_ACCOUNT"); v != "" {
		snap.Azure.AccountName = v
	}
	if v := os.Getenv("DRIVE2BLOB_AZURE_CONTAINER"); v != "" {
		snap.Azure.ContainerName = v
	}
	if v := os.Getenv("DRIVE2BLOB_AZURE_SAS_TOKEN"); v != "" {
		snap.Azure.SASToken = v
	}
}
