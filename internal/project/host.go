package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/raphi011/funcwiz/internal/storage"
)

const (
	// HostFile marks the root of a functions project.
	HostFile = "host.json"

	// ExtensionBundleID and ExtensionBundleVersion select the binding
	// extensions for non-.NET projects.
	ExtensionBundleID      = "Microsoft.Azure.Functions.ExtensionBundle"
	ExtensionBundleVersion = "[4.*, 5.0.0)"
)

// Host is the decoded host.json document.
type Host map[string]any

// IsProject reports whether dir contains a host.json.
func IsProject(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, HostFile))
	return err == nil
}

// Find walks up from dir to the nearest directory containing host.json.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		if IsProject(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadHost reads host.json in dir. A missing file yields a new document
// with version 2.0.
func LoadHost(dir string) (Host, error) {
	h := Host{}
	err := storage.LoadJSON(filepath.Join(dir, HostFile), &h)
	if errors.Is(err, fs.ErrNotExist) {
		return Host{"version": "2.0"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", HostFile, err)
	}
	return h, nil
}

// SaveHost writes h to host.json in dir.
func SaveHost(dir string, h Host) error {
	if err := storage.SaveJSON(filepath.Join(dir, HostFile), h); err != nil {
		return fmt.Errorf("write %s: %w", HostFile, err)
	}
	return nil
}

// UpdateHost applies fn to host.json in dir and saves the result.
func UpdateHost(dir string, fn func(Host) error) error {
	h, err := LoadHost(dir)
	if err != nil {
		return err
	}
	if err := fn(h); err != nil {
		return err
	}
	return SaveHost(dir, h)
}

// SetExtensionBundle sets the default extension bundle unless one is
// already configured.
func (h Host) SetExtensionBundle() {
	if _, ok := h["extensionBundle"]; ok {
		return
	}
	h["extensionBundle"] = map[string]any{
		"id":      ExtensionBundleID,
		"version": ExtensionBundleVersion,
	}
}

// SetCustomHandler points the host at a custom handler executable and
// forwards HTTP requests to it.
func (h Host) SetCustomHandler(executable string, args []string) {
	if args == nil {
		args = []string{}
	}
	h["customHandler"] = map[string]any{
		"description": map[string]any{
			"defaultExecutablePath": executable,
			"workingDirectory":      "",
			"arguments":             args,
		},
		"enableForwardingHttpRequest": true,
	}
}

// CustomHandler returns the configured custom handler executable.
func (h Host) CustomHandler() (string, bool) {
	ch, ok := h["customHandler"].(map[string]any)
	if !ok {
		return "", false
	}
	desc, ok := ch["description"].(map[string]any)
	if !ok {
		return "", false
	}
	exe, ok := desc["defaultExecutablePath"].(string)
	return exe, ok && exe != ""
}
