package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SnapshotConfig controls persistence of fitted vocabularies.
type SnapshotConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Path            string `yaml:"path"`
	LockTimeoutSecs int    `yaml:"lock_timeout_secs"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr               string  `yaml:"addr"`
	MaxUploadMB        int     `yaml:"max_upload_mb"`
	RequestTimeoutSecs int     `yaml:"request_timeout_secs"`
	RateLimitRPS       float64 `yaml:"rate_limit_rps"`
	RateLimitBurst     int     `yaml:"rate_limit_burst"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DecoderConfig limits which document formats are accepted.
type DecoderConfig struct {
	Extensions []string `yaml:"extensions"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Decoder  DecoderConfig  `yaml:"decoder"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/resumerank/config.yaml.
// If neither exists, it writes defaults to ~/.config/resumerank/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values the application cannot run with.
func (c *AppConfig) Validate() error {
	if c.Snapshot.Enabled && strings.TrimSpace(c.Snapshot.Path) == "" {
		return errors.New("snapshot.path is required when snapshot.enabled is true")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return errors.New("server rate limit values must not be negative")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *AppConfig { return defaultConfig() }

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "resumerank", "config.yaml"), nil
}

func defaultSnapshotPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "model.yaml"
	}
	return filepath.Join(home, ".local", "share", "resumerank", "model.yaml")
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Snapshot: SnapshotConfig{Enabled: true, Path: defaultSnapshotPath(), LockTimeoutSecs: 5},
		Server: ServerConfig{
			Addr:               "127.0.0.1:8080",
			MaxUploadMB:        16,
			RequestTimeoutSecs: 30,
			RateLimitRPS:       5,
			RateLimitBurst:     10,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Decoder: DecoderConfig{Extensions: []string{".docx", ".txt", ".md", ".html", ".htm"}},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Snapshot.Path == "" {
		cfg.Snapshot.Path = def.Snapshot.Path
	}
	if cfg.Snapshot.LockTimeoutSecs == 0 {
		cfg.Snapshot.LockTimeoutSecs = def.Snapshot.LockTimeoutSecs
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = def.Server.MaxUploadMB
	}
	if cfg.Server.RequestTimeoutSecs == 0 {
		cfg.Server.RequestTimeoutSecs = def.Server.RequestTimeoutSecs
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if len(cfg.Decoder.Extensions) == 0 {
		cfg.Decoder.Extensions = def.Decoder.Extensions
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("RESUMERANK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RESUMERANK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RESUMERANK_SNAPSHOT_PATH"); v != "" {
		cfg.Snapshot.Path = v
	}
	if v := os.Getenv("RESUMERANK_SNAPSHOT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Snapshot.Enabled = b
		}
	}
	if v := os.Getenv("RESUMERANK_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}
