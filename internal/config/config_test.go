package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 20, cfg.DBPoolSize)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, domain.MetricCosine, cfg.Metric())
	assert.Equal(t, domain.RatingScale{Min: 0.5, Max: 5}, cfg.Scale())
	assert.Equal(t, 4.0, cfg.CF.RelevanceThreshold)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CF_METRIC", "pearson")
	t.Setenv("CF_NEIGHBORS", "25")
	t.Setenv("CF_RELEVANCE_THRESHOLD", "3.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, domain.MetricPearson, cfg.Metric())
	assert.Equal(t, 25, cfg.CF.Neighbors)
	assert.Equal(t, 3.5, cfg.CF.RelevanceThreshold)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7070\ncf:\n  top_n: 5\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 5, cfg.CF.TopN)
	assert.Equal(t, 10, cfg.CF.Neighbors)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown metric", func(c *Config) { c.CF.Metric = "jaccard" }},
		{"zero neighbors", func(c *Config) { c.CF.Neighbors = 0 }},
		{"threshold above scale", func(c *Config) { c.CF.RelevanceThreshold = 5.5 }},
		{"inverted scale", func(c *Config) { c.CF.RatingMax = 0.1 }},
		{"test ratio", func(c *Config) { c.CF.TestRatio = 1 }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, defaultConfig().Validate())
}
