package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultTopN, cfg.TopN)
	assert.Equal(t, CombineMultiplicative, cfg.CombineMode)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, CatalogSourceFile, cfg.Catalog.Source)
	assert.Equal(t, OutputFormatConsole, cfg.Output.Format)
	assert.InDelta(t, 0.30, cfg.Weights.Quality.CommercialActivity, 1e-9)
	assert.InDelta(t, 0.40, cfg.Weights.Matching.Demographic, 1e-9)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := writeFile(t, "regionrank.yaml", `
top_n: 5
combine_mode: average
catalog:
  path: /data/regions.yaml
  cache_ttl: 30s
weights:
  quality:
    demographic: 0.1
industry_aliases:
  coffee: cafe
`)

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, CombineAverage, cfg.CombineMode)
	assert.Equal(t, "/data/regions.yaml", cfg.Catalog.Path)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)
	assert.InDelta(t, 0.1, cfg.Weights.Quality.Demographic, 1e-9)
	assert.InDelta(t, 0.25, cfg.Weights.Quality.Specialization, 1e-9)
	assert.Equal(t, map[string]string{"coffee": "cafe"}, cfg.IndustryAliases)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REGIONRANK_TOP_N", "3")
	t.Setenv("REGIONRANK_CATALOG_CACHE_TTL", "1m")

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, time.Minute, cfg.Catalog.CacheTTL)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		cfg, err := LoadConfig(viper.New(), "")
		require.NoError(t, err)
		return *cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"unknown combine mode", func(c *Config) { c.CombineMode = "sum" }, "combine_mode"},
		{"average weight out of range", func(c *Config) { c.AverageQualityWeight = 1.5 }, "average_quality_weight"},
		{"negative top_n", func(c *Config) { c.TopN = -1 }, "top_n"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"unknown catalog source", func(c *Config) { c.Catalog.Source = "s3" }, "catalog.source"},
		{"file source without path", func(c *Config) { c.Catalog.Path = "" }, "catalog.path"},
		{"unknown output format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"json output without path", func(c *Config) { c.Output.Format = OutputFormatJSON }, "output.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", d.DSN())
}
