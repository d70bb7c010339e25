package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Gateway contains connection settings for the generative AI service.
// A missing API key is not a load failure: gateway-dependent actions
// surface it as a configuration error at call time so the app can direct
// the user to fix it instead of crashing at startup.
type Gateway struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TextModel      string `toml:"text_model"`
	ImageModel     string `toml:"image_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Capture contains camera device settings.
type Capture struct {
	Device      string  `toml:"device"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	JPEGQuality float64 `toml:"jpeg_quality"`
}

// Scan contains timing for the capture sequencer.
type Scan struct {
	DetectionDelayMS int     `toml:"detection_delay_ms"`
	TickIntervalMS   int     `toml:"tick_interval_ms"`
	TickStep         float64 `toml:"tick_step"`
	CooldownMS       int     `toml:"cooldown_ms"`
}

// Enrichment bounds the routine image-resolution pass.
type Enrichment struct {
	MaxSteps    int `toml:"max_steps"`
	Parallelism int `toml:"parallelism"`
}

// Rewards contains gamification settings.
type Rewards struct {
	CompletionPoints int `toml:"completion_points"`
	StreakMilestone  int `toml:"streak_milestone"`
}

// Sync contains the optional remote snapshot backend. When URL is empty the
// app runs local-only and sync-dependent surfaces stay hidden.
type Sync struct {
	URL            string `toml:"url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for skinsight.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Gateway       Gateway       `toml:"gateway"`
	Capture       Capture       `toml:"capture"`
	Scan          Scan          `toml:"scan"`
	Enrichment    Enrichment    `toml:"enrichment"`
	Rewards       Rewards       `toml:"rewards"`
	Sync          Sync          `toml:"sync"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/skinsight/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and secrets overlaid from the
// environment (a .env file is honored when present).
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) applyEnv() {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		c.Gateway.APIKey = key
	}
	if token := strings.TrimSpace(os.Getenv("SKINSIGHT_SYNC_TOKEN")); token != "" {
		c.Sync.Token = token
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("skinsight.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the app needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SyncEnabled reports whether a remote snapshot backend is configured.
func (c *Config) SyncEnabled() bool {
	return strings.TrimSpace(c.Sync.URL) != ""
}

// ExpandPath resolves ~ and relative segments to an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
