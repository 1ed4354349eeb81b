package config

// MergeLocal overlays a per-project config onto global, returning a new
// Config without mutating global. Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	merged := *global

	if local.DefaultLanguage != "" {
		merged.DefaultLanguage = local.DefaultLanguage
	}
	if local.Host.URL != "" {
		merged.Host.URL = local.Host.URL
	}
	if local.Host.MasterKey != "" {
		merged.Host.MasterKey = local.Host.MasterKey
	}
	if local.Function.AuthLevel != "" {
		merged.Function.AuthLevel = local.Function.AuthLevel
	}

	return &merged
}
