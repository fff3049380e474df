// Package config provides configuration management.
package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is where a locally started classification service listens.
const DefaultAPIURL = "http://127.0.0.1:5000/predict"

// Config holds all configuration settings
type Config struct {
	// Classification service
	APIURL         string `json:"api_url" yaml:"api_url"`
	AuthToken      string `json:"auth_token,omitempty" yaml:"auth_token,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`

	// Reachability probe
	ProbeOnStart bool        `json:"probe_on_start" yaml:"probe_on_start"`
	Probe        ProbeConfig `json:"probe" yaml:"probe"`

	Log LogConfig `json:"log" yaml:"log"`
	UI  UIConfig  `json:"ui" yaml:"ui"`
}

// ProbeConfig controls the backoff used when checking the service.
type ProbeConfig struct {
	MaxRetries     int `json:"max_retries" yaml:"max_retries"`
	InitialDelayMS int `json:"initial_delay_ms" yaml:"initial_delay_ms"`
	MaxDelayMS     int `json:"max_delay_ms" yaml:"max_delay_ms"`
}

// LogConfig holds file logging settings
type LogConfig struct {
	Dir        string `json:"dir" yaml:"dir"`
	Level      string `json:"level" yaml:"level"` // "debug", "info", "warn", "error"
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	WrapWidth    int  `json:"wrap_width" yaml:"wrap_width"` // 0 = follow the terminal
	ShowOriginal bool `json:"show_original" yaml:"show_original"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		TimeoutSeconds: 30,
		ProbeOnStart:   true,
		Probe: ProbeConfig{
			MaxRetries:     3,
			InitialDelayMS: 250,
			MaxDelayMS:     2000,
		},
		Log: LogConfig{
			Dir:        ".spamcheck/logs",
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		UI: UIConfig{
			WrapWidth:    0,
			ShowOriginal: true,
		},
	}
}

// DefaultPath is where `spamcheck init` writes the config file.
const DefaultPath = ".spamcheck/config.json"

// GetConfigPaths returns a prioritized list of configuration file paths
func GetConfigPaths(cliPath string) []string {
	var paths []string

	// 1. CLI Override
	if cliPath != "" {
		paths = append(paths, cliPath)
		return paths // If explicit, only use that
	}

	// 2. Project local paths
	paths = append(paths, DefaultPath, ".spamcheck/config.yaml", "spamcheck.json", "spamcheck.yaml")

	// 3. User global path
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".spamcheck", "config.json"),
			filepath.Join(homeDir, ".spamcheck", "config.yaml"),
		)
	}

	return paths
}

// Load loads configuration from the first available path in the prioritized
// list. When no file exists the defaults are returned together with "".
// An explicit cliPath that cannot be read is an error.
func Load(cliPath string) (*Config, string, error) {
	loadDotEnv(".env")

	for _, path := range GetConfigPaths(cliPath) {
		data, err := os.ReadFile(path)
		if err != nil {
			if cliPath != "" {
				return nil, path, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			continue
		}

		cfg := DefaultConfig()
		if err := decode(path, data, cfg); err != nil {
			return nil, path, err
		}
		applyEnvOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, path, fmt.Errorf("configuration validation failed in %s: %w", path, err)
		}
		return cfg, path, nil
	}

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("default configuration validation failed: %w", err)
	}
	return cfg, "", nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("invalid YAML in config file %s: %w", path, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid JSON in config file %s: %w", path, err)
	}
	return nil
}

// allowedEnvVars is a whitelist of environment variable names that may be set from .env
var allowedEnvVars = map[string]bool{
	"SPAMCHECK_API_URL":    true,
	"SPAMCHECK_AUTH_TOKEN": true,
	"SPAMCHECK_TIMEOUT":    true,
	"SPAMCHECK_LOG_LEVEL":  true,
	"SPAMCHECK_LOG_DIR":    true,
}

// loadDotEnv loads environment variables from a .env file
func loadDotEnv(envFile string) {
	file, err := os.Open(envFile)
	if err != nil {
		return // .env doesn't exist, that's ok
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(strings.TrimPrefix(parts[0], "export "))
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Only allow whitelisted keys to prevent env injection
		if !allowedEnvVars[key] {
			continue
		}

		// Real environment wins over .env
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if apiURL := os.Getenv("SPAMCHECK_API_URL"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if token := os.Getenv("SPAMCHECK_AUTH_TOKEN"); token != "" {
		cfg.AuthToken = token
	}
	if timeout := os.Getenv("SPAMCHECK_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			cfg.TimeoutSeconds = secs
		}
	}
	if level := os.Getenv("SPAMCHECK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if dir := os.Getenv("SPAMCHECK_LOG_DIR"); dir != "" {
		cfg.Log.Dir = dir
	}
}

// Timeout returns the per-request timeout; zero disables it.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProbeInitialDelay returns the first probe backoff interval, defaulting to 250ms.
func (c *Config) ProbeInitialDelay() time.Duration {
	if c.Probe.InitialDelayMS > 0 {
		return time.Duration(c.Probe.InitialDelayMS) * time.Millisecond
	}
	return 250 * time.Millisecond
}

// ProbeMaxDelay returns the probe backoff ceiling, defaulting to 2s.
func (c *Config) ProbeMaxDelay() time.Duration {
	if c.Probe.MaxDelayMS > 0 {
		return time.Duration(c.Probe.MaxDelayMS) * time.Millisecond
	}
	return 2 * time.Second
}

// Save saves configuration to a file, as YAML when the path says so.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600) // 0600: owner read/write only (protects auth_token)
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if err := validateURL(c.APIURL); err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}

	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if c.Probe.MaxRetries < 0 {
		return fmt.Errorf("probe.max_retries must not be negative")
	}
	if c.Log.Dir == "" {
		return fmt.Errorf("log.dir is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	if c.UI.WrapWidth < 0 {
		return fmt.Errorf("ui.wrap_width must not be negative")
	}

	return nil
}

// validateURL validates that a URL is properly formatted
func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL is required")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("URL must have a valid host")
	}

	return nil
}
