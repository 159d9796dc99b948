package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the ragd API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	// Collections are all known vector collections, in the order they
	// participate in merges.
	Collections []string `yaml:"collections"`
	// QASources names the collections queried by the answer endpoint.
	QASources []string `yaml:"qa_sources"`
	// Phases maps a lifecycle phase name to the collection backing it.
	Phases  map[string]string `yaml:"phases"`
	Logging LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// GenerationConfig holds chat model settings.
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// RetrievalConfig holds retrieval and gating settings.
type RetrievalConfig struct {
	TopK             int     `yaml:"top_k"`
	SimilarityFloor  float64 `yaml:"similarity_floor"`
	MinSimilarity    float64 `yaml:"min_similarity"`
	TargetMinWords   int     `yaml:"target_min_words"`
	TargetMaxWords   int     `yaml:"target_max_words"`
	SourceTimeoutSec int     `yaml:"source_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
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
		// Generation calls ride on this timeout, keep it generous.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-large"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1024
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-4o-mini"
	}
	if c.Generation.Temperature <= 0 {
		c.Generation.Temperature = 0.2
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 6
	}
	if c.Retrieval.SimilarityFloor <= 0 {
		c.Retrieval.SimilarityFloor = 0.45
	}
	if c.Retrieval.MinSimilarity <= 0 {
		c.Retrieval.MinSimilarity = 0.35
	}
	if c.Retrieval.TargetMinWords <= 0 {
		c.Retrieval.TargetMinWords = 120
	}
	if c.Retrieval.TargetMaxWords <= 0 {
		c.Retrieval.TargetMaxWords = 180
	}
	if c.Retrieval.SourceTimeoutSec <= 0 {
		c.Retrieval.SourceTimeoutSec = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required")
	}
	if len(c.Collections) == 0 {
		return fmt.Errorf("collections is required")
	}
	if len(c.QASources) == 0 {
		return fmt.Errorf("qa_sources is required")
	}
	if len(c.Phases) == 0 {
		return fmt.Errorf("phases is required")
	}

	known := make(map[string]struct{}, len(c.Collections))
	for _, name := range c.Collections {
		if name == "" {
			return fmt.Errorf("collections must not contain empty names")
		}
		if _, dup := known[name]; dup {
			return fmt.Errorf("collections contains duplicate %q", name)
		}
		known[name] = struct{}{}
	}
	for _, name := range c.QASources {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("qa_sources references unknown collection %q", name)
		}
	}
	for phase, name := range c.Phases {
		if phase != strings.ToLower(phase) {
			return fmt.Errorf("phase names must be lowercase, got %q", phase)
		}
		if _, ok := known[name]; !ok {
			return fmt.Errorf("phases.%s references unknown collection %q", phase, name)
		}
	}

	if c.Retrieval.TargetMinWords > c.Retrieval.TargetMaxWords {
		return fmt.Errorf("retrieval.target_min_words (%d) must not exceed target_max_words (%d)",
			c.Retrieval.TargetMinWords, c.Retrieval.TargetMaxWords)
	}
	if c.Retrieval.SimilarityFloor > 1 || c.Retrieval.MinSimilarity > 1 {
		return fmt.Errorf("retrieval thresholds must not exceed 1.0")
	}
	return nil
}

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
