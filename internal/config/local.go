package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-project override file, placed next to
// host.json.
const LocalConfigFileName = ".funcwiz.toml"

// LocalConfig holds per-project overrides. Empty values inherit from the
// global config.
type LocalConfig struct {
	DefaultLanguage string         `toml:"default_language"`
	Host            HostConfig     `toml:"host"`
	Function        FunctionConfig `toml:"function"`
}

// LoadLocal reads .funcwiz.toml from projectPath.
// Returns nil (no error) if the file doesn't exist.
func LoadLocal(projectPath string) (*LocalConfig, error) {
	configFile := filepath.Join(projectPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	if err := validateEnum(local.DefaultLanguage, "default_language", ValidLanguages); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}
	if err := validateEnum(local.Function.AuthLevel, "function.auth_level", ValidAuthLevels); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}
	if err := validateURL(local.Host.URL, "host.url"); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}

	return &local, nil
}

const defaultLocalConfig = `# funcwiz project config
# Settings here override ~/.config/funcwiz/config.toml for this project only.

# [host]
# url = "http://localhost:7072"
# master_key = ""

# [function]
# auth_level = "anonymous"
`

// DefaultLocalConfig returns the template written by "funcwiz config init --local".
func DefaultLocalConfig() string {
	return defaultLocalConfig
}

// InitLocal writes a default .funcwiz.toml into projectPath.
func InitLocal(projectPath string, force bool) (string, error) {
	path := filepath.Join(projectPath, LocalConfigFileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}
	if err := os.WriteFile(path, []byte(defaultLocalConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
