package config

import "time"

// Defaults for engine and daemon settings.
const (
	DefaultMaxHistory     = 50
	DefaultValidatorURL   = "http://localhost:8000"
	DefaultRequestTimeout = 10 * time.Second
	DefaultListenAddr     = ":8000"
	DefaultAuditPath      = "./pipecanvas-audit.db"
)

// Settings is the resolved configuration the editor and the validator
// daemon consume.
type Settings struct {
	// MaxHistory caps the undo history depth.
	MaxHistory int

	// ValidatorURL is the base URL of the pipeline validator.
	ValidatorURL string

	// RequestTimeout bounds a validator round trip.
	RequestTimeout time.Duration

	// ListenAddr is the daemon's bind address.
	ListenAddr string

	// AuditPath is the daemon's SQLite parse-audit file, or ":memory:".
	AuditPath string
}

// SettingsFrom resolves Settings from a Config, applying defaults for
// missing keys.
func SettingsFrom(c Config) Settings {
	return Settings{
		MaxHistory:     c.Int("max_history", DefaultMaxHistory),
		ValidatorURL:   c.String("validator_url", DefaultValidatorURL),
		RequestTimeout: c.Duration("request_timeout", DefaultRequestTimeout),
		ListenAddr:     c.String("listen_addr", DefaultListenAddr),
		AuditPath:      c.String("audit_path", DefaultAuditPath),
	}
}

// DefaultSettings returns Settings with every default applied.
func DefaultSettings() Settings {
	return SettingsFrom(New(nil))
}
