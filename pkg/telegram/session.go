package telegram

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// Session is the persisted connection state for one API identity. It is
// created on the first successful connect and reused afterwards so the
// platform sees a stable device identity.
type Session struct {
	AuthKey       string    `json:"auth_key"`
	APIID         int       `json:"api_id"`
	DeviceModel   string    `json:"device_model"`
	SystemVersion string    `json:"system_version"`
	AppVersion    string    `json:"app_version"`
	LangCode      string    `json:"lang_code"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LoadOrCreateSession loads the session stored at path, or creates and
// persists a fresh one when the file does not exist. A file that exists
// but cannot be parsed is a corrupt session, not a fresh start.
func LoadOrCreateSession(path string, cfg Config) (*Session, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, fmt.Errorf("corrupt session file %s: %w", path, err)
		}
		return &session, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	session, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	if err := session.save(path); err != nil {
		return nil, err
	}
	return session, nil
}

func newSession(cfg Config) (*Session, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate auth key: %w", err)
	}

	now := time.Now().UTC()
	return &Session{
		AuthKey:       hex.EncodeToString(key),
		APIID:         cfg.APIID,
		DeviceModel:   cfg.DeviceModel,
		SystemVersion: cfg.SystemVersion,
		AppVersion:    cfg.AppVersion,
		LangCode:      cfg.LangCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// save writes the session atomically: temp file first, then rename, so a
// crash mid-write never leaves a corrupt session behind.
func (s *Session) save(path string) error {
	s.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename session file: %w", err)
	}
	return nil
}
