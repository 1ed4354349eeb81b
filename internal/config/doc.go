// Package config handles loading and validation of funcwiz configuration.
//
// Configuration is read from ~/.config/funcwiz/config.toml with environment
// variable overrides.
//
// # Configuration Sources (highest priority first)
//
//   - .funcwiz.toml in the Functions project (host, function defaults)
//   - FUNCWIZ_FUNC_PATH env var: func CLI executable
//   - FUNCWIZ_FEED_TTL env var: feed cache lifetime, e.g. "30m"
//   - GITHUB_TOKEN env var: used when feed.github_token is empty
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - func_path / bal_path: external CLIs invoked by execute steps
//   - default_language: preselected language for new projects
//   - feed: template and sample listing URLs and cache lifetime
//   - host: local Functions host for "funcwiz trigger"
//   - theme: terminal UI colors
//   - hooks: shell commands run after project, function and sample wizards
//
// Explicit paths must be absolute or start with ~; bare command names are
// looked up on PATH.
package config
