package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults for settings that are empty in the config file.
const (
	DefaultFuncPath     = "func"
	DefaultBalPath      = "bal"
	DefaultHostURL      = "http://localhost:7071"
	DefaultFeedTTL      = 10 * time.Minute
	DefaultTemplatesURL = "https://raw.githubusercontent.com/raphi011/funcwiz-templates/main/templates.json"
	DefaultSamplesURL   = "https://api.github.com/repos/Azure-Samples/azure-functions-samples/contents"
)

// ThemeConfig holds UI theme/color configuration
type ThemeConfig struct {
	Name     string `toml:"name"`     // preset family: "none", "default", "dracula", "nord", "gruvbox", "catppuccin"
	Mode     string `toml:"mode"`     // "auto", "light" or "dark"
	Primary  string `toml:"primary"`  // main accent color (borders, titles)
	Accent   string `toml:"accent"`   // highlight color (selected items)
	Success  string `toml:"success"`  // success indicators
	Error    string `toml:"error"`    // error messages
	Muted    string `toml:"muted"`    // disabled/inactive text
	Normal   string `toml:"normal"`   // standard text
	Info     string `toml:"info"`     // informational text
	Warning  string `toml:"warning"`  // warning dialogs
	Nerdfont bool   `toml:"nerdfont"` // use nerd font symbols
}

// FeedConfig configures remote template and sample listings.
type FeedConfig struct {
	TTL          Duration `toml:"ttl"`
	Persist      bool     `toml:"persist"` // keep fetched feeds in ~/.funcwiz/feeds.json
	TemplatesURL string   `toml:"templates_url"`
	SamplesURL   string   `toml:"samples_url"`
	GitHubToken  string   `toml:"github_token"`
}

// HostConfig describes the local Functions host used by "funcwiz trigger".
type HostConfig struct {
	URL       string `toml:"url"`
	MasterKey string `toml:"master_key"`
}

// FunctionConfig holds defaults for "funcwiz function create".
type FunctionConfig struct {
	AuthLevel string `toml:"auth_level"`
}

// Hook is a shell command run after a wizard completes.
type Hook struct {
	Command     string   `toml:"command"`
	Description string   `toml:"description"`
	On          []string `toml:"on"` // events this hook runs on (empty = only via --hook)
}

// Config holds the funcwiz configuration
type Config struct {
	FuncPath        string          `toml:"func_path"`
	BalPath         string          `toml:"bal_path"`
	DefaultLanguage string          `toml:"default_language"`
	Feed            FeedConfig      `toml:"feed"`
	Host            HostConfig      `toml:"host"`
	Function        FunctionConfig  `toml:"function"`
	Theme           ThemeConfig     `toml:"theme"`
	Hooks           map[string]Hook `toml:"hooks"`
}

// Duration is a time.Duration that reads from TOML strings like "10m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration
func Default() Config {
	return Config{
		FuncPath: DefaultFuncPath,
		BalPath:  DefaultBalPath,
		Feed: FeedConfig{
			TTL:          Duration{DefaultFeedTTL},
			Persist:      true,
			TemplatesURL: DefaultTemplatesURL,
			SamplesURL:   DefaultSamplesURL,
		},
		Host: HostConfig{URL: DefaultHostURL},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "funcwiz", "config.toml"), nil
}

// Load reads config from ~/.config/funcwiz/config.toml and applies
// environment overrides. Returns Default() if the file doesn't exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path, os.Getenv)
}

// LoadFile reads config from path. getenv supplies the FUNCWIZ_*
// overrides.
func LoadFile(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}

	for _, p := range []*string{&cfg.FuncPath, &cfg.BalPath} {
		expanded, err := expandPath(*p)
		if err != nil {
			return Default(), err
		}
		*p = expanded
	}

	cfg.fillDefaults()
	return cfg, nil
}

// applyEnv applies FUNCWIZ_* environment overrides.
func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("FUNCWIZ_FUNC_PATH"); v != "" {
		cfg.FuncPath = v
	}
	if v := getenv("FUNCWIZ_FEED_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FUNCWIZ_FEED_TTL %q: %w", v, err)
		}
		cfg.Feed.TTL = Duration{d}
	}
	if v := getenv("GITHUB_TOKEN"); v != "" && cfg.Feed.GitHubToken == "" {
		cfg.Feed.GitHubToken = v
	}
	return nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.FuncPath == "" {
		c.FuncPath = d.FuncPath
	}
	if c.BalPath == "" {
		c.BalPath = d.BalPath
	}
	if c.Feed.TTL.Duration <= 0 {
		c.Feed.TTL = d.Feed.TTL
	}
	if c.Feed.TemplatesURL == "" {
		c.Feed.TemplatesURL = d.Feed.TemplatesURL
	}
	if c.Feed.SamplesURL == "" {
		c.Feed.SamplesURL = d.Feed.SamplesURL
	}
	if c.Host.URL == "" {
		c.Host.URL = d.Host.URL
	}
}

const defaultConfig = `# funcwiz configuration

# Azure Functions Core Tools executable. Overridden by FUNCWIZ_FUNC_PATH.
# func_path = "func"

# Ballerina executable, used for custom handler projects
# bal_path = "bal"

# Language preselected in "funcwiz project create"
# One of: csharp, javascript, typescript, python, java, powershell, custom
# default_language = "python"

# [feed]
# ttl = "10m"           # how long fetched listings are reused (FUNCWIZ_FEED_TTL)
# persist = true        # keep listings in ~/.funcwiz/feeds.json between runs
# templates_url = "https://..."
# samples_url = "https://api.github.com/repos/<owner>/<repo>/contents"
# github_token = ""     # defaults to $GITHUB_TOKEN

# Local Functions host used by "funcwiz trigger"
# [host]
# url = "http://localhost:7071"
# master_key = ""

# [function]
# auth_level = "function"   # anonymous, function or admin

# Hooks run after a wizard succeeds, in the created directory.
# Placeholders: {path}, {name}, {language}, {event}, plus {key} from --arg key=value
# [hooks.vscode]
# command = "code {path}"
# description = "Open in VS Code"
# on = ["project", "samples"]   # project, function, samples or all

# [theme]
# name = "default"      # none, default, dracula, nord, gruvbox, catppuccin
# mode = "auto"         # auto, light or dark
# nerdfont = false
`

// DefaultConfig returns the template written by "funcwiz config init".
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at ~/.config/funcwiz/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, initFile(path, force)
}

func initFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}
