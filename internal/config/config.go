package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-ledger/internal/category"
	"github.com/insightdelivered/statement-ledger/internal/inference"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Config represents the top-level ledger.yaml configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Storage    StorageConfig    `yaml:"storage"`
	Inference  InferenceConfig  `yaml:"inference"`
	Categories CategoriesConfig `yaml:"categories"`
	Auth       AuthConfig       `yaml:"auth"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port        int `yaml:"port"`
	BodyLimitMB int `yaml:"body_limit_mb"`
	Concurrency int `yaml:"concurrency"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// StorageConfig locates the document library.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"db_path"` // relative paths resolve against DataDir
}

// InferenceConfig holds the delta inference heuristics.
type InferenceConfig struct {
	Tolerance  float64 `yaml:"tolerance"`
	SampleSize int     `yaml:"sample_size"`
	ZeroDelta  string  `yaml:"zero_delta"` // "debit" or "credit"
}

// CategoriesConfig controls the category classifier.
type CategoriesConfig struct {
	FuzzyCutoff float64 `yaml:"fuzzy_cutoff"`
	Default     string  `yaml:"default"`
	SeedFile    string  `yaml:"seed_file,omitempty"`
}

// AuthConfig controls the document library's access tokens. An empty
// secret makes serve generate one per process, so tokens do not survive a
// restart.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret,omitempty"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			BodyLimitMB: 50,
			Concurrency: 4,
		},
		Log: LogConfig{Level: "info"},
		Storage: StorageConfig{
			DataDir: "data",
			DBPath:  "ledger.db",
		},
		Inference: InferenceConfig{
			Tolerance:  0.6,
			SampleSize: 8,
			ZeroDelta:  "debit",
		},
		Categories: CategoriesConfig{
			FuzzyCutoff: category.DefaultCutoff,
			Default:     category.DefaultCategory,
		},
		Auth: AuthConfig{TokenTTL: time.Hour},
	}
}

// Load reads a ledger.yaml file from disk on top of the defaults, then
// applies LEDGER_* environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvInt("LEDGER_PORT", c.Server.Port)
	c.Server.BodyLimitMB = getEnvInt("LEDGER_BODY_LIMIT_MB", c.Server.BodyLimitMB)
	c.Server.Concurrency = getEnvInt("LEDGER_CONCURRENCY", c.Server.Concurrency)
	c.Log.Level = getEnv("LEDGER_LOG_LEVEL", c.Log.Level)
	c.Storage.DataDir = getEnv("LEDGER_DATA_DIR", c.Storage.DataDir)
	c.Storage.DBPath = getEnv("LEDGER_DB_PATH", c.Storage.DBPath)
	c.Inference.Tolerance = getEnvFloat("LEDGER_TOLERANCE", c.Inference.Tolerance)
	c.Inference.SampleSize = getEnvInt("LEDGER_SAMPLE_SIZE", c.Inference.SampleSize)
	c.Inference.ZeroDelta = getEnv("LEDGER_ZERO_DELTA", c.Inference.ZeroDelta)
	c.Categories.SeedFile = getEnv("LEDGER_CATEGORY_SEED", c.Categories.SeedFile)
	c.Auth.JWTSecret = getEnv("LEDGER_JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = getEnvDuration("LEDGER_TOKEN_TTL", c.Auth.TokenTTL)
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Inference.Tolerance < 0 {
		return fmt.Errorf("invalid inference.tolerance %v", c.Inference.Tolerance)
	}
	if c.Inference.SampleSize <= 0 {
		return fmt.Errorf("invalid inference.sample_size %d", c.Inference.SampleSize)
	}
	switch strings.ToLower(c.Inference.ZeroDelta) {
	case "debit", "credit":
	default:
		return fmt.Errorf("invalid inference.zero_delta %q (want debit or credit)", c.Inference.ZeroDelta)
	}
	if c.Categories.FuzzyCutoff <= 0 || c.Categories.FuzzyCutoff > 1 {
		return fmt.Errorf("invalid categories.fuzzy_cutoff %v", c.Categories.FuzzyCutoff)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid auth.token_ttl %v", c.Auth.TokenTTL)
	}
	return nil
}

// DatabasePath returns the sqlite path, resolved against the data dir.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Storage.DBPath) {
		return c.Storage.DBPath
	}
	return filepath.Join(c.Storage.DataDir, c.Storage.DBPath)
}

// EngineConfig converts the inference settings for the engine.
func (c *Config) EngineConfig() inference.Config {
	cfg := inference.DefaultConfig()
	cfg.Tolerance = decimal.NewFromFloat(c.Inference.Tolerance)
	cfg.SampleSize = c.Inference.SampleSize
	cfg.ZeroDelta = models.Debit
	if strings.EqualFold(c.Inference.ZeroDelta, "credit") {
		cfg.ZeroDelta = models.Credit
	}
	return cfg
}

// CategoryIndex builds the default index plus the optional seed file.
func (c *Config) CategoryIndex() (*category.Index, error) {
	idx := category.DefaultIndex()
	if c.Categories.SeedFile != "" {
		if err := category.LoadSeed(idx, c.Categories.SeedFile); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Classifier builds a classifier over idx with the configured cutoff and
// default category.
func (c *Config) Classifier(idx *category.Index) *category.Classifier {
	return category.NewClassifier(idx,
		category.WithCutoff(c.Categories.FuzzyCutoff),
		category.WithDefault(c.Categories.Default),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
