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

// Config holds the matzip API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Database  DatabaseConfig  `yaml:"database"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Search    SearchConfig    `yaml:"search"`
	Recommend RecommendConfig `yaml:"recommend"`
	Rerank    RerankConfig    `yaml:"rerank"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Logging   LoggingConfig   `yaml:"logging"`
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

// DatabaseConfig holds preference store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CorpusConfig holds corpus artifact settings.
type CorpusConfig struct {
	DataDir string `yaml:"data_dir"` // directory with restaurants.parquet and embeddings.bin
}

// SearchConfig holds retrieval pipeline settings.
type SearchConfig struct {
	TopKBM25    int           `yaml:"top_k_bm25"`
	TopKE5      int           `yaml:"top_k_e5"`
	TopN        int           `yaml:"top_n"`
	NarrateTopN int           `yaml:"narrate_top_n"`
	Weights     SearchWeights `yaml:"weights"`
}

// SearchWeights holds score fusion weights. An entirely empty block falls
// back to the defaults; a partially filled block keeps its explicit zeros.
type SearchWeights struct {
	BM25         float64 `yaml:"bm25"`
	E5           float64 `yaml:"e5"`
	Hybrid       float64 `yaml:"hybrid"`
	Confidence   float64 `yaml:"confidence"`
	TypeMatch    float64 `yaml:"type_match"`
	CrossEncoder float64 `yaml:"cross_encoder"`
}

// IsZero reports whether no weight was configured.
func (w SearchWeights) IsZero() bool {
	return w == SearchWeights{}
}

// RecommendConfig holds similarity cascade settings.
type RecommendConfig struct {
	MinScoreThreshold float64 `yaml:"min_score_threshold"` // порог сентимента для сильных сторон
	MaxAttributes     int     `yaml:"max_attributes"`
	DefaultLimit      int     `yaml:"default_limit"`
}

// RerankConfig holds cross-encoder service settings.
type RerankConfig struct {
	Endpoint   string `yaml:"endpoint"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// OpenAIConfig holds chat and embedding provider settings. BaseURL may point
// at any OpenAI-compatible server.
type OpenAIConfig struct {
	APIKey     string          `yaml:"api_key"`
	BaseURL    string          `yaml:"base_url"`
	ChatModel  string          `yaml:"chat_model"`
	TimeoutSec int             `yaml:"timeout_sec"`
	Embedding  EmbeddingConfig `yaml:"embedding"`
}

// EmbeddingConfig holds query embedding settings.
type EmbeddingConfig struct {
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"` // e5 prefix, e.g. "query: "
	CacheTTLSec      int    `yaml:"cache_ttl_sec"`
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
		// Answering a chat search waits on several LLM round trips.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.TopKBM25 <= 0 {
		c.Search.TopKBM25 = 60
	}
	if c.Search.TopKE5 <= 0 {
		c.Search.TopKE5 = 60
	}
	if c.Search.TopN <= 0 {
		c.Search.TopN = 20
	}
	if c.Search.NarrateTopN <= 0 {
		c.Search.NarrateTopN = 5
	}
	if c.Search.Weights.IsZero() {
		c.Search.Weights = SearchWeights{
			BM25:         0.1,
			E5:           0.9,
			Hybrid:       1.0,
			Confidence:   0.3,
			TypeMatch:    0.5,
			CrossEncoder: 2.0,
		}
	}
	if c.Recommend.MinScoreThreshold <= 0 {
		c.Recommend.MinScoreThreshold = 0.5
	}
	if c.Recommend.MaxAttributes <= 0 {
		c.Recommend.MaxAttributes = 2
	}
	if c.Recommend.DefaultLimit <= 0 {
		c.Recommend.DefaultLimit = 5
	}
	if c.Rerank.TimeoutSec <= 0 {
		c.Rerank.TimeoutSec = 30
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.OpenAI.TimeoutSec <= 0 {
		c.OpenAI.TimeoutSec = 60
	}
	if c.OpenAI.Embedding.Model == "" {
		c.OpenAI.Embedding.Model = "intfloat/multilingual-e5-large"
	}
	if c.OpenAI.Embedding.Dimensions <= 0 {
		c.OpenAI.Embedding.Dimensions = 1024
	}
	if c.OpenAI.Embedding.QueryInstruction == "" {
		c.OpenAI.Embedding.QueryInstruction = "query: "
	}
	if c.OpenAI.Embedding.CacheTTLSec <= 0 {
		c.OpenAI.Embedding.CacheTTLSec = 3600
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
		// ok
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Corpus.DataDir == "" {
		return fmt.Errorf("corpus.data_dir is required")
	}
	if c.Rerank.Endpoint == "" {
		return fmt.Errorf("rerank.endpoint is required")
	}
	weights := []struct {
		name  string
		value float64
	}{
		{"bm25", c.Search.Weights.BM25},
		{"e5", c.Search.Weights.E5},
		{"hybrid", c.Search.Weights.Hybrid},
		{"confidence", c.Search.Weights.Confidence},
		{"type_match", c.Search.Weights.TypeMatch},
		{"cross_encoder", c.Search.Weights.CrossEncoder},
	}
	for _, w := range weights {
		if w.value < 0 {
			return fmt.Errorf("search.weights.%s must be non-negative, got %g", w.name, w.value)
		}
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
