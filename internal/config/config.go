package config

import (
	"errors"
	"fmt"
	"strings"

	"phpcsutils/internal/application/common/logging"
	"phpcsutils/internal/domain/errors/domain"
	"phpcsutils/internal/domain/valueobject"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
}

// AnalysisConfig holds the structural analysis configuration.
type AnalysisConfig struct {
	HostVersion    string `mapstructure:"host_version"`     // Empty disables compensation
	RulesFile      string `mapstructure:"rules_file"`       // Optional table replacing the embedded one
	CacheSize      int    `mapstructure:"cache_size"`       // Maximum cached units
	Workers        int    `mapstructure:"workers"`          // Units analysed in parallel
	MaxSourceBytes int    `mapstructure:"max_source_bytes"` // 0 means unlimited
}

// Version parses the configured host version. An empty setting yields the zero version.
func (a AnalysisConfig) Version() (valueobject.HostVersion, error) {
	if strings.TrimSpace(a.HostVersion) == "" {
		return valueobject.HostVersion{}, nil
	}
	v, err := valueobject.NewHostVersion(a.HostVersion)
	if err != nil {
		return valueobject.HostVersion{}, fmt.Errorf("%w: %w", domain.ErrUnsupportedVersion, err)
	}
	return v, nil
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Logging converts the log settings into a logger configuration.
func (l LogConfig) Logging() logging.Config {
	return logging.Config{
		Level:  strings.ToUpper(l.Level),
		Format: l.Format,
		Output: "stderr",
	}
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	// Analysis defaults
	v.SetDefault("analysis.host_version", "")
	v.SetDefault("analysis.rules_file", "")
	v.SetDefault("analysis.cache_size", 64)
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("analysis.max_source_bytes", 0)

	// Logging defaults
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "json")
}

// New creates a new Config instance from Viper.
func New(v *viper.Viper) *Config {
	config, err := Load(v)
	if err != nil {
		panic(err)
	}
	return config
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Analysis.Version(); err != nil {
		return fmt.Errorf("analysis.host_version: %w", err)
	}

	if c.Analysis.CacheSize < 1 {
		return errors.New("analysis.cache_size must be at least 1")
	}

	if c.Analysis.Workers < 1 {
		return errors.New("analysis.workers must be at least 1")
	}

	if c.Analysis.MaxSourceBytes < 0 {
		return errors.New("analysis.max_source_bytes cannot be negative")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text: got %q", c.Log.Format)
	}

	return nil
}
