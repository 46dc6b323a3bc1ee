// Package config loads gate configuration from an optional preflight.yaml,
// environment overrides, and hard defaults. A missing or broken config is
// never fatal: the gate falls back to defaults and keeps deciding.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the gate.
type Config struct {
	// ProtectedBranches are branch names on which direct commits, merges,
	// and pushes are disallowed.
	ProtectedBranches []string `mapstructure:"protected_branches"`

	// FileLineLimit is the ceiling for total lines of a source file.
	FileLineLimit int `mapstructure:"file_line_limit"`
	// FuncLineLimit is the ceiling for a single function or method.
	FuncLineLimit int `mapstructure:"func_line_limit"`
	// EditLineLimit is the ceiling for lines added by one edit fragment.
	EditLineLimit int `mapstructure:"edit_line_limit"`

	// AdvisoryThreshold is the distinct-file count after which the
	// session-accumulation advisory fires.
	AdvisoryThreshold int `mapstructure:"advisory_threshold"`

	// SessionTTL is the rolling window during which touched paths stay
	// valid, anchored at first touch.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	// StatePath is the location of the persisted session record.
	StatePath string `mapstructure:"state_path"`

	// ProbeTimeout bounds the version-control probe subprocess.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ProtectedBranches: []string{"main", "master", "production"},
		FileLineLimit:     500,
		FuncLineLimit:     50,
		EditLineLimit:     50,
		AdvisoryThreshold: 3,
		SessionTTL:        time.Hour,
		StatePath:         filepath.Join(os.TempDir(), "preflight-session.db"),
		ProbeTimeout:      3 * time.Second,
		LogLevel:          "warn",
	}
}

// Load merges preflight.yaml (searched in the working directory and in
// ~/.config/preflight), PREFLIGHT_* environment variables, and defaults.
// A missing file is not an error; an unreadable one is reported so the
// caller can log it and continue on defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("preflight")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "preflight"))
	}

	v.SetEnvPrefix("preflight")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := Default()
	v.SetDefault("protected_branches", def.ProtectedBranches)
	v.SetDefault("file_line_limit", def.FileLineLimit)
	v.SetDefault("func_line_limit", def.FuncLineLimit)
	v.SetDefault("edit_line_limit", def.EditLineLimit)
	v.SetDefault("advisory_threshold", def.AdvisoryThreshold)
	v.SetDefault("session_ttl", def.SessionTTL)
	v.SetDefault("state_path", def.StatePath)
	v.SetDefault("probe_timeout", def.ProbeTimeout)
	v.SetDefault("log_level", def.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Default(), fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// IsProtectedBranch reports whether name is in the protected set.
func (c *Config) IsProtectedBranch(name string) bool {
	for _, b := range c.ProtectedBranches {
		if strings.EqualFold(name, b) {
			return true
		}
	}
	return false
}
