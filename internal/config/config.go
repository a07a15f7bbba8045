package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type SettleMode string

const (
	SettleDelay  SettleMode = "delay"
	SettleStable SettleMode = "stable"
)

type Config struct {
	WatchRoot      string        `mapstructure:"watch_root"`
	DestRoot       string        `mapstructure:"dest_root"`
	GracePeriod    time.Duration `mapstructure:"grace_period"`
	SettleMode     SettleMode    `mapstructure:"settle_mode"`
	StableInterval time.Duration `mapstructure:"stable_interval"`
	StableChecks   int           `mapstructure:"stable_checks"`
	StrictRemove   bool          `mapstructure:"strict_remove"`
	MaxInflight    int           `mapstructure:"max_inflight"`
	LogPath        string        `mapstructure:"log_path"`
	DBPath         string        `mapstructure:"db_path"`
	DaemonPort     int           `mapstructure:"daemon_port"`
	BufferSize     int           `mapstructure:"buffer_size"`
	IgnoreList     []string      `mapstructure:"ignore_list"`
	CleanupDays    int           `mapstructure:"cleanup_days"`
}

var Default = Config{
	GracePeriod:    5 * time.Second,
	SettleMode:     SettleDelay,
	StableInterval: time.Second,
	StableChecks:   3,
	DaemonPort:     9101,
	BufferSize:     100,
	CleanupDays:    60,
}

// Dir returns the per-user state directory, creating it when missing.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	dir := filepath.Join(home, ".nasmover")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	return dir, nil
}

func Load() (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return nil, err
	}

	return LoadFrom(viper.GetViper(), configDir)
}

// LoadFrom reads config.yaml from configDir into v. Paths that are left empty
// default to files inside configDir.
func LoadFrom(v *viper.Viper, configDir string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("watch_root", Default.WatchRoot)
	v.SetDefault("dest_root", Default.DestRoot)
	v.SetDefault("grace_period", Default.GracePeriod)
	v.SetDefault("settle_mode", string(Default.SettleMode))
	v.SetDefault("stable_interval", Default.StableInterval)
	v.SetDefault("stable_checks", Default.StableChecks)
	v.SetDefault("strict_remove", Default.StrictRemove)
	v.SetDefault("max_inflight", Default.MaxInflight)
	v.SetDefault("log_path", filepath.Join(configDir, "nasmover.log"))
	v.SetDefault("db_path", filepath.Join(configDir, "nasmover.db"))
	v.SetDefault("daemon_port", Default.DaemonPort)
	v.SetDefault("buffer_size", Default.BufferSize)
	v.SetDefault("ignore_list", []string{})
	v.SetDefault("cleanup_days", Default.CleanupDays)

	v.SetEnvPrefix("NASMOVER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := errors.AsType[viper.ConfigFileNotFoundError](err); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.SettleMode {
	case SettleDelay, SettleStable:
	default:
		return fmt.Errorf("invalid settle_mode %q: want %q or %q", c.SettleMode, SettleDelay, SettleStable)
	}

	if c.GracePeriod < 0 {
		return fmt.Errorf("grace_period must not be negative")
	}
	if c.SettleMode == SettleStable && (c.StableInterval <= 0 || c.StableChecks < 1) {
		return fmt.Errorf("stable settle mode needs stable_interval > 0 and stable_checks >= 1")
	}
	if c.BufferSize < 1 {
		c.BufferSize = Default.BufferSize
	}

	return nil
}

// ValidatePaths checks the fields the watch daemon cannot start without.
func (c *Config) ValidatePaths() error {
	if c.WatchRoot == "" {
		return fmt.Errorf("watch_root is not configured")
	}
	if c.DestRoot == "" {
		return fmt.Errorf("dest_root is not configured")
	}

	return nil
}
