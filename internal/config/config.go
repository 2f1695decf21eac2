// Package config provides application configuration with multi-source
// priority:
//
//  1. Environment variables (SAHAYAK_* and DATABASE_URL)
//  2. Config file (~/.sahayak/config.yaml)
//  3. Defaults
//
// Sensitive values (the PostgreSQL password) are never logged.
// Validation lives in validation.go and uses sentinel errors so callers
// can match with errors.Is.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Default retrieval knobs. The similarity threshold is a deployment
// tunable; values between 0.5 and 0.78 have been useful depending on
// the corpus and embedder.
const (
	DefaultChunkSize           = 1000
	DefaultChunkOverlap        = 100
	DefaultSimilarityThreshold = 0.60
	DefaultMaxCandidates       = 20
	DefaultRerankTopK          = 5
	DefaultInsertBatchSize     = 100
)

// DefaultEmbedderModel is the Gemini embedder used for chunk and query
// vectors. Output is truncated to 768 dimensions to match the pgvector
// schema; see rag.VectorDimension.
const DefaultEmbedderModel = "gemini-embedding-001"

// DefaultModelName is the generative model for grounded answers.
const DefaultModelName = "gemini-2.5-flash"

// RetrievalConfig holds the knobs consumed by the RAG pipeline.
type RetrievalConfig struct {
	ChunkSize           int     `mapstructure:"chunk_size" json:"chunk_size"`
	ChunkOverlap        int     `mapstructure:"chunk_overlap" json:"chunk_overlap"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" json:"similarity_threshold"`
	MaxCandidates       int     `mapstructure:"max_candidates" json:"max_candidates"`
	RerankTopK          int     `mapstructure:"rerank_top_k" json:"rerank_top_k"`
	InsertBatchSize     int     `mapstructure:"insert_batch_size" json:"insert_batch_size"`
}

// Config stores application configuration.
type Config struct {
	// AI provider configuration.
	ModelName     string `mapstructure:"model_name" json:"model_name"`
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`

	// EmbedRatePerSecond caps embedding-provider calls; 0 disables the
	// limiter.
	EmbedRatePerSecond float64 `mapstructure:"embed_rate_per_second" json:"embed_rate_per_second"`

	Retrieval RetrievalConfig `mapstructure:"retrieval" json:"retrieval"`

	// PostgreSQL connection.
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"-"`
	PostgresDBName   string `mapstructure:"postgres_dbname" json:"postgres_dbname"`
	PostgresSSLMode  string `mapstructure:"postgres_sslmode" json:"postgres_sslmode"`

	// ServerAddr is the listen address for `sahayak serve`.
	ServerAddr string `mapstructure:"server_addr" json:"server_addr"`

	// OTLPEndpoint enables trace export when non-empty
	// (host:port of an OTLP/HTTP collector).
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
}

// Load reads configuration from defaults, the config file, and the
// environment, then validates it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("embed_rate_per_second", 0)
	v.SetDefault("retrieval.chunk_size", DefaultChunkSize)
	v.SetDefault("retrieval.chunk_overlap", DefaultChunkOverlap)
	v.SetDefault("retrieval.similarity_threshold", DefaultSimilarityThreshold)
	v.SetDefault("retrieval.max_candidates", DefaultMaxCandidates)
	v.SetDefault("retrieval.rerank_top_k", DefaultRerankTopK)
	v.SetDefault("retrieval.insert_batch_size", DefaultInsertBatchSize)
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "sahayak")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_dbname", "sahayak")
	v.SetDefault("postgres_sslmode", "disable")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("otlp_endpoint", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".sahayak"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("SAHAYAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env apply.
		var notFound viper.ConfigFileNotFoundError
		if !errorsAs(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// errorsAs is a tiny indirection so Load reads linearly.
func errorsAs(err error, target *viper.ConfigFileNotFoundError) bool {
	if e, ok := err.(viper.ConfigFileNotFoundError); ok {
		*target = e
		return true
	}
	return false
}

// quoteDSNValue quotes a value for the key=value DSN format so values
// with spaces or quotes survive parsing.
func quoteDSNValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// PostgresConnectionString returns the pgx DSN.
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresUser,
		quoteDSNValue(c.PostgresPassword),
		c.PostgresDBName,
		c.PostgresSSLMode,
	)
}

// PostgresURL returns the postgres:// URL used by golang-migrate.
func (c *Config) PostgresURL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:     c.PostgresDBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.PostgresSSLMode),
	}
	return u.String()
}

// parseDatabaseURL applies DATABASE_URL on top of the individual
// postgres_* settings. Common in cloud deployments.
func (c *Config) parseDatabaseURL() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL must start with postgres:// or postgresql://, got %q", parsed.Scheme)
	}

	if host := parsed.Hostname(); host != "" {
		c.PostgresHost = host
	}
	if portStr := parsed.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid port in DATABASE_URL: %w", err)
		}
		c.PostgresPort = port
	}
	if parsed.User != nil {
		if user := parsed.User.Username(); user != "" {
			c.PostgresUser = user
		}
		if password, ok := parsed.User.Password(); ok {
			c.PostgresPassword = password
		}
	}
	if parsed.Path != "" {
		c.PostgresDBName = strings.TrimPrefix(parsed.Path, "/")
	}
	if sslmode := parsed.Query().Get("sslmode"); sslmode != "" {
		c.PostgresSSLMode = sslmode
	}
	return nil
}
