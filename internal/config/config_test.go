package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoad_DefaultsToMemoryStore(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), ".env"), envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 0.3, cfg.FuzzyThreshold)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_DatabaseURLSelectsPostgres(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), ".env"), envFrom(map[string]string{
		"DATABASE_URL": "postgres://localhost/recap",
	}))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, int32(1), cfg.DBMinConns)
}

func TestLoad_PoolSizing(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), ".env"), envFrom(map[string]string{
		"DATABASE_URL": "postgres://localhost/recap",
		"DB_MAX_CONNS": "25",
		"DB_MIN_CONNS": "3",
	}))
	require.NoError(t, err)

	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, int32(3), cfg.DBMinConns)
}

func TestLoad_EnvironmentOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("PORT=9000\nSTORE_DRIVER=sqlite\nSQLITE_PATH=/tmp/a.db\nLOG_LEVEL=debug\n"), 0o600))

	cfg, err := load(envPath, envFrom(map[string]string{"PORT": "7000", "CORS_ORIGINS": "http://a.test, http://b.test"}))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/a.db", cfg.SQLitePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "recap.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("port: 8181\nfuzzy_threshold: 0.4\nseed_demo_data: true\n"), 0o600))

	cfg, err := load(filepath.Join(dir, ".env"), envFrom(map[string]string{"CONFIG_FILE": yamlPath}))
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, 0.4, cfg.FuzzyThreshold)
	assert.True(t, cfg.SeedDemoData)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "abc"}},
		{"negative port", map[string]string{"PORT": "-1"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"postgres without url", map[string]string{"STORE_DRIVER": "postgres"}},
		{"threshold out of range", map[string]string{"FUZZY_THRESHOLD": "1.5"}},
		{"zero upload size", map[string]string{"MAX_UPLOAD_MB": "0"}},
		{"bad seed flag", map[string]string{"SEED_DEMO_DATA": "maybe"}},
		{"zero max conns", map[string]string{"DB_MAX_CONNS": "0"}},
		{"min above max", map[string]string{"DATABASE_URL": "postgres://localhost/recap", "DB_MAX_CONNS": "2", "DB_MIN_CONNS": "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(filepath.Join(t.TempDir(), ".env"), envFrom(tt.env))
			assert.Error(t, err)
		})
	}
}
