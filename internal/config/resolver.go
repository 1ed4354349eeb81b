package config

import (
	"context"
	"sync"
)

type resolverKey struct{}

// ConfigResolver provides lazy per-project config resolution with caching.
type ConfigResolver struct {
	global *Config

	mu    sync.Mutex
	cache map[string]*Config // projectPath -> merged config
}

// NewResolver creates a new ConfigResolver backed by the given global config.
func NewResolver(global *Config) *ConfigResolver {
	return &ConfigResolver{
		global: global,
		cache:  make(map[string]*Config),
	}
}

// ConfigForProject returns the effective config for a Functions project,
// merging any .funcwiz.toml found there with the global config.
func (r *ConfigResolver) ConfigForProject(projectPath string) (*Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[projectPath]; ok {
		return cached, nil
	}

	local, err := LoadLocal(projectPath)
	if err != nil {
		return nil, err
	}

	merged := MergeLocal(r.global, local)
	r.cache[projectPath] = merged
	return merged, nil
}

// Global returns the global config (without any local overrides).
func (r *ConfigResolver) Global() *Config {
	return r.global
}

// WithResolver returns a new context with the ConfigResolver stored in it.
func WithResolver(ctx context.Context, r *ConfigResolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the ConfigResolver from context.
// Falls back to a resolver over Default() if none is stored.
func ResolverFromContext(ctx context.Context) *ConfigResolver {
	if r, ok := ctx.Value(resolverKey{}).(*ConfigResolver); ok {
		return r
	}
	cfg := Default()
	return NewResolver(&cfg)
}
