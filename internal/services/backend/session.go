package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadSession reads a persisted session from path. A missing file returns
// found=false without error.
func LoadSession(path string) (Session, bool, error) {
	var session Session
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return session, false, nil
		}
		return session, false, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, &session); err != nil {
		return session, false, fmt.Errorf("parse session: %w", err)
	}
	if session.Secret == "" {
		return session, false, nil
	}
	return session, true, nil
}

// SaveSession persists a session to path with owner-only permissions.
func SaveSession(path string, session Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// ClearSession removes the persisted session file. A missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
