// Package storage provides atomic file operations for JSON data, both for
// funcwiz's own state in ~/.funcwiz/ and for project files such as
// host.json and local.settings.json.
package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// AppDir returns the path to ~/.funcwiz/, creating it if needed
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".funcwiz")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return dir, nil
}

// SaveJSON atomically writes data as indented JSON to path.
// It ensures the parent directory exists, writes to a temp file,
// then renames to the final path.
func SaveJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	jsonData = append(jsonData, '\n')

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0o644); err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}

// LoadJSON reads JSON from path into dest, ignoring a leading UTF-8
// byte order mark. Returns an os.ErrNotExist error if the file doesn't
// exist (caller should handle).
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes.TrimPrefix(data, []byte("\ufeff")), dest)
}
