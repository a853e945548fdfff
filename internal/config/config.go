package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Port             int      `yaml:"port"`
	StoreDriver      string   `yaml:"store_driver"`
	DatabaseURL      string   `yaml:"database_url"`
	DBMaxConns       int32    `yaml:"db_max_conns"`
	DBMinConns       int32    `yaml:"db_min_conns"`
	SQLitePath       string   `yaml:"sqlite_path"`
	FuzzyThreshold   float64  `yaml:"fuzzy_threshold"`
	MaxUploadMB      int      `yaml:"max_upload_mb"`
	UploadRatePerSec float64  `yaml:"upload_rate_per_sec"`
	UploadBurst      int      `yaml:"upload_burst"`
	CORSOrigins      []string `yaml:"cors_origins"`
	LogLevel         string   `yaml:"log_level"`
	SeedDemoData     bool     `yaml:"seed_demo_data"`
}

func Default() Config {
	return Config{
		Port:             8080,
		DBMaxConns:       10,
		DBMinConns:       1,
		SQLitePath:       filepath.Join("data", "recap.db"),
		FuzzyThreshold:   0.3,
		MaxUploadMB:      32,
		UploadRatePerSec: 5,
		UploadBurst:      10,
		CORSOrigins:      []string{"*"},
		LogLevel:         "info",
	}
}

// Load reads configuration from, in increasing priority, built-in defaults,
// an optional YAML file named by CONFIG_FILE, ./.env and the environment.
func Load() (Config, error) {
	return load(filepath.Join(".", ".env"), os.Getenv)
}

func load(envPath string, getenv func(string) string) (Config, error) {
	values := map[string]string{}
	if _, err := os.Stat(envPath); err == nil {
		fileValues, err := godotenv.Read(envPath)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", envPath, err)
		}
		values = fileValues
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("stat %s: %w", envPath, err)
	}
	lookup := func(key string) string {
		return firstNonEmpty(getenv(key), values[key])
	}

	cfg := Default()
	if path := lookup("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if raw := lookup("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid PORT: %q", raw)
		}
		cfg.Port = port
	}
	if raw := lookup("DATABASE_URL"); raw != "" {
		cfg.DatabaseURL = raw
	}
	if raw := lookup("DB_MAX_CONNS"); raw != "" {
		conns, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || conns <= 0 {
			return Config{}, fmt.Errorf("invalid DB_MAX_CONNS: %q", raw)
		}
		cfg.DBMaxConns = int32(conns)
	}
	if raw := lookup("DB_MIN_CONNS"); raw != "" {
		conns, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || conns < 0 {
			return Config{}, fmt.Errorf("invalid DB_MIN_CONNS: %q", raw)
		}
		cfg.DBMinConns = int32(conns)
	}
	if raw := lookup("STORE_DRIVER"); raw != "" {
		cfg.StoreDriver = strings.ToLower(raw)
	}
	if raw := lookup("SQLITE_PATH"); raw != "" {
		cfg.SQLitePath = raw
	}
	if raw := lookup("FUZZY_THRESHOLD"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FUZZY_THRESHOLD: %q", raw)
		}
		cfg.FuzzyThreshold = threshold
	}
	if raw := lookup("MAX_UPLOAD_MB"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_MB: %q", raw)
		}
		cfg.MaxUploadMB = size
	}
	if raw := lookup("UPLOAD_RATE_PER_SEC"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid UPLOAD_RATE_PER_SEC: %q", raw)
		}
		cfg.UploadRatePerSec = rate
	}
	if raw := lookup("UPLOAD_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid UPLOAD_BURST: %q", raw)
		}
		cfg.UploadBurst = burst
	}
	if raw := lookup("CORS_ORIGINS"); raw != "" {
		cfg.CORSOrigins = splitList(raw)
	}
	if raw := lookup("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	if raw := lookup("SEED_DEMO_DATA"); raw != "" {
		seed, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SEED_DEMO_DATA: %q", raw)
		}
		cfg.SeedDemoData = seed
	}

	if cfg.StoreDriver == "" {
		// Without a database the app still runs, on the in-memory store.
		cfg.StoreDriver = DriverMemory
		if cfg.DatabaseURL != "" {
			cfg.StoreDriver = DriverPostgres
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		if c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %q (expected postgres, sqlite or memory)", c.StoreDriver)
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("invalid FUZZY_THRESHOLD: %.2f (expected 0 < t <= 1)", c.FuzzyThreshold)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid MAX_UPLOAD_MB: %d", c.MaxUploadMB)
	}
	if c.UploadRatePerSec < 0 || c.UploadBurst < 0 {
		return fmt.Errorf("upload rate limit values cannot be negative")
	}
	return nil
}

// MaxUploadBytes is the multipart size limit for upload endpoints.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func loadYAML(path string, cfg *Config) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(body, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if value := strings.TrimSpace(candidate); value != "" {
			return value
		}
	}
	return ""
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			out = append(out, value)
		}
	}
	return out
}
