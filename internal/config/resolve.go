package config

// ResolveUser determines the session user using precedence:
// 1. flagOverride (--user flag)
// 2. config default_user
// Returns empty when neither is set; the caller treats that as fatal.
func ResolveUser(flagOverride string, cfg *Config) string {
	if flagOverride != "" {
		return flagOverride
	}
	if cfg != nil {
		return cfg.DefaultUser
	}
	return ""
}
