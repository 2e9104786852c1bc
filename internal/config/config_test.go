package config

import (
	"bytes"
	"testing"

	"phpcsutils/internal/domain/errors/domain"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	if yaml != "" {
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString(yaml)))
	}
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, AnalysisConfig{CacheSize: 64, Workers: 4}, cfg.Analysis)
	assert.Equal(t, LogConfig{Level: "warn", Format: "json"}, cfg.Log)

	v, err := cfg.Analysis.Version()
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestLoad_FromYAML(t *testing.T) {
	cfg, err := Load(newViper(t, `
analysis:
  host_version: "3.5.2"
  rules_file: ./rules.yaml
  cache_size: 8
  workers: 2
  max_source_bytes: 1048576
log:
  level: debug
  format: text
`))
	require.NoError(t, err)

	assert.Equal(t, "./rules.yaml", cfg.Analysis.RulesFile)
	assert.Equal(t, 8, cfg.Analysis.CacheSize)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, 1048576, cfg.Analysis.MaxSourceBytes)

	v, err := cfg.Analysis.Version()
	require.NoError(t, err)
	assert.Equal(t, "3.5.2", v.String())

	lc := cfg.Log.Logging()
	assert.Equal(t, "DEBUG", lc.Level)
	assert.Equal(t, "text", lc.Format)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Analysis: AnalysisConfig{CacheSize: 1, Workers: 1},
			Log:      LogConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "host version", mutate: func(c *Config) { c.Analysis.HostVersion = "v3.7" }},
		{name: "bad host version", mutate: func(c *Config) { c.Analysis.HostVersion = "latest" }, wantErr: "analysis.host_version"},
		{name: "cache size", mutate: func(c *Config) { c.Analysis.CacheSize = 0 }, wantErr: "analysis.cache_size"},
		{name: "workers", mutate: func(c *Config) { c.Analysis.Workers = 0 }, wantErr: "analysis.workers"},
		{name: "max source bytes", mutate: func(c *Config) { c.Analysis.MaxSourceBytes = -1 }, wantErr: "analysis.max_source_bytes"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: "log.level"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnalysisConfig_Version_Unsupported(t *testing.T) {
	_, err := AnalysisConfig{HostVersion: "three"}.Version()
	assert.ErrorIs(t, err, domain.ErrUnsupportedVersion)
}

func TestNew_PanicsOnInvalidConfig(t *testing.T) {
	v := newViper(t, "analysis:\n  workers: 0\n")
	assert.Panics(t, func() { New(v) })

	assert.NotPanics(t, func() { New(newViper(t, "")) })
}
