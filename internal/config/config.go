package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the docquery API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	LLM      LLMConfig      `yaml:"llm"`
	PDF      PDFConfig      `yaml:"pdf"`
	Search   SearchConfig   `yaml:"search"`
	Summary  SummaryConfig  `yaml:"summary"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN              string `yaml:"dsn"`
	MaxConns         int32  `yaml:"max_conns"`
	MinConns         int32  `yaml:"min_conns"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds the optional summary cache settings.
type CacheConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	OpenAI       ProviderConfig    `yaml:"openai"`
	Anthropic    ProviderConfig    `yaml:"anthropic"`
	DefaultModel string            `yaml:"default_model"`
	MaxTokens    int               `yaml:"max_tokens"`
	TimeoutSec   int               `yaml:"timeout_sec"`
	Models       map[string]string `yaml:"models"` // model id -> wire name override
}

// ProviderConfig holds credentials for one LLM provider.
// An empty APIKey leaves the provider unregistered.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// PDFConfig holds fetch and extraction settings.
type PDFConfig struct {
	TokenBudget       int    `yaml:"token_budget"`
	MaxBytes          int64  `yaml:"max_bytes"`
	FetchTimeoutSec   int    `yaml:"fetch_timeout_sec"`
	ContentTimeoutSec int    `yaml:"content_timeout_sec"`
	UserAgent         string `yaml:"user_agent"`
	TempDir           string `yaml:"temp_dir"`
}

// SearchConfig holds pagination settings.
type SearchConfig struct {
	DefaultPageSize  int `yaml:"default_page_size"`
	MaxPageSize      int `yaml:"max_page_size"`
	DefaultMaxResult int `yaml:"default_max_results"` // v1 search
}

// SummaryConfig holds batch summarization settings.
type SummaryConfig struct {
	BatchConcurrency int `yaml:"batch_concurrency"`
	MaxBatchSize     int `yaml:"max_batch_size"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// summaries wait on PDF download plus completion
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 500
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 60
	}
	if c.PDF.TokenBudget <= 0 {
		c.PDF.TokenBudget = 1000
	}
	if c.PDF.MaxBytes <= 0 {
		c.PDF.MaxBytes = 50 << 20
	}
	if c.PDF.FetchTimeoutSec <= 0 {
		c.PDF.FetchTimeoutSec = 30
	}
	if c.PDF.ContentTimeoutSec <= 0 {
		c.PDF.ContentTimeoutSec = 45
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 10
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
	if c.Search.DefaultMaxResult <= 0 {
		c.Search.DefaultMaxResult = 3
	}
	if c.Summary.BatchConcurrency <= 0 {
		c.Summary.BatchConcurrency = 4
	}
	if c.Summary.MaxBatchSize <= 0 {
		c.Summary.MaxBatchSize = 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf("search.default_page_size (%d) exceeds max_page_size (%d)",
			c.Search.DefaultPageSize, c.Search.MaxPageSize)
	}
	if c.Search.DefaultMaxResult > c.Search.MaxPageSize {
		return fmt.Errorf("search.default_max_results (%d) exceeds max_page_size (%d)",
			c.Search.DefaultMaxResult, c.Search.MaxPageSize)
	}
	return nil
}

// ReadTimeout returns the HTTP read timeout.
func (c HTTPConfig) ReadTimeout() time.Duration { return seconds(c.ReadTimeoutSec) }

// WriteTimeout returns the HTTP write timeout.
func (c HTTPConfig) WriteTimeout() time.Duration { return seconds(c.WriteTimeoutSec) }

// ShutdownTimeout returns the graceful shutdown timeout.
func (c HTTPConfig) ShutdownTimeout() time.Duration { return seconds(c.ShutdownSec) }

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration { return seconds(c.TTLSec) }

// Timeout returns the per-request LLM timeout.
func (c LLMConfig) Timeout() time.Duration { return seconds(c.TimeoutSec) }

// FetchTimeout returns the PDF download timeout.
func (c PDFConfig) FetchTimeout() time.Duration { return seconds(c.FetchTimeoutSec) }

// ContentTimeout returns the fetch-and-extract stage timeout.
func (c PDFConfig) ContentTimeout() time.Duration { return seconds(c.ContentTimeoutSec) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
