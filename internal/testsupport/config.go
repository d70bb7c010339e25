package testsupport

import (
	"path/filepath"
	"testing"

	"skinsight/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Gateway.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithoutAPIKey clears the gateway credential on the test config.
func WithoutAPIKey() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Gateway.APIKey = ""
	}
}

// WithSync points the test config at a remote snapshot backend.
func WithSync(url, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.URL = url
		cfg.Sync.Token = token
	}
}
