package project

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/raphi011/funcwiz/internal/storage"
)

const (
	// LocalSettingsFile holds app settings for the local host.
	LocalSettingsFile = "local.settings.json"

	// WorkerRuntimeSetting selects the language worker.
	WorkerRuntimeSetting = "FUNCTIONS_WORKER_RUNTIME"

	// StorageSetting is the host's storage connection.
	StorageSetting = "AzureWebJobsStorage"

	// EmulatorConnection targets the local storage emulator (Azurite).
	EmulatorConnection = "UseDevelopmentStorage=true"
)

// LocalSettings is local.settings.json.
type LocalSettings struct {
	IsEncrypted       bool              `json:"IsEncrypted"`
	Values            map[string]string `json:"Values"`
	Host              map[string]any    `json:"Host,omitempty"`
	ConnectionStrings map[string]string `json:"ConnectionStrings,omitempty"`
}

// LoadLocalSettings reads local.settings.json in dir. A missing file
// yields empty settings.
func LoadLocalSettings(dir string) (*LocalSettings, error) {
	s := &LocalSettings{}
	err := storage.LoadJSON(filepath.Join(dir, LocalSettingsFile), s)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", LocalSettingsFile, err)
	}
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	return s, nil
}

// SaveLocalSettings writes s to local.settings.json in dir.
func SaveLocalSettings(dir string, s *LocalSettings) error {
	if err := storage.SaveJSON(filepath.Join(dir, LocalSettingsFile), s); err != nil {
		return fmt.Errorf("write %s: %w", LocalSettingsFile, err)
	}
	return nil
}

// UpdateLocalSettings applies fn to local.settings.json in dir and saves
// the result. The file is not written when fn fails.
func UpdateLocalSettings(dir string, fn func(*LocalSettings) error) error {
	s, err := LoadLocalSettings(dir)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return SaveLocalSettings(dir, s)
}

// SetValue sets an app setting.
func (s *LocalSettings) SetValue(key, value string) {
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	s.Values[key] = value
}

// SetDefault sets an app setting only if it is absent.
func (s *LocalSettings) SetDefault(key, value string) {
	if _, ok := s.Values[key]; ok {
		return
	}
	s.SetValue(key, value)
}
