package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Generation providers. The live providers match provider.Type values.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Config represents the main configuration for linkodin.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Generation GenerationConfig `yaml:"generation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Events     EventsConfig     `yaml:"events"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// StorageConfig selects where personas and posts live
type StorageConfig struct {
	Backend     string `yaml:"backend"` // "file", "memory", "postgres", "redis"
	DataDir     string `yaml:"data_dir"`
	PersonaFile string `yaml:"persona_file"`
	PostFile    string `yaml:"post_file"`
	PostgresDSN string `yaml:"postgres_dsn"`
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// PersonaPath is the persona document path for the file backend.
func (s StorageConfig) PersonaPath() string {
	return s.resolve(s.PersonaFile)
}

// PostPath is the post document path for the file backend.
func (s StorageConfig) PostPath() string {
	return s.resolve(s.PostFile)
}

func (s StorageConfig) resolve(name string) string {
	if filepath.IsAbs(name) || s.DataDir == "" {
		return name
	}
	return filepath.Join(s.DataDir, name)
}

// GenerationConfig configures the LLM backend
type GenerationConfig struct {
	Provider string        `yaml:"provider"` // "openai", "gemini", "mock"
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"` // OpenAI-compatible base URL override
	Timeout  time.Duration `yaml:"timeout"`
}

// TelemetryConfig configures OpenTelemetry trace export
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"` // empty disables export
	ServiceName  string `yaml:"service_name"`
}

// MetricsConfig configures Prometheus textfile export
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"` // empty disables export
}

// EventsConfig configures post-generated event publishing
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"` // empty disables publishing
	Stream  string `yaml:"stream"`
}

// LoggingConfig configures the log level and optional file sink
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:     BackendFile,
			DataDir:     ".",
			PersonaFile: "personas.json",
			PostFile:    "posts.json",
			RedisPrefix: "linkodin:",
		},
		Generation: GenerationConfig{
			Provider: ProviderOpenAI,
			Timeout:  120 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "linkodin",
		},
		Events: EventsConfig{
			Stream: "LINKODIN",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadConfigFromFile loads configuration from a YAML file on top of the
// defaults. ${VAR} references are expanded before parsing.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return config, nil
}

// Load reads .env files, the optional YAML file and environment overrides, in
// that order of increasing precedence. A missing config file means defaults.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}
	if path == "" {
		path = os.Getenv("LINKODIN_CONFIG")
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfigFromFile(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadDotEnv loads the given .env files, or ./.env when none are named.
// Variables already set in the environment win, and missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration from environment variables.
func (c *Config) ApplyEnv() {
	setString(&c.Storage.Backend, "LINKODIN_STORAGE")
	setString(&c.Storage.DataDir, "LINKODIN_DATA_DIR")
	setString(&c.Storage.PostgresDSN, "DATABASE_URL")
	setString(&c.Storage.RedisURL, "REDIS_URL")

	setString(&c.Generation.Provider, "LINKODIN_PROVIDER")
	switch c.Generation.Provider {
	case ProviderGemini:
		setString(&c.Generation.APIKey, "GEMINI_API_KEY")
		setString(&c.Generation.Model, "GEMINI_MODEL")
	default:
		setString(&c.Generation.APIKey, "OPENAI_API_KEY")
		setString(&c.Generation.Model, "OPENAI_MODEL")
		setString(&c.Generation.Endpoint, "OPENAI_BASE_URL")
	}

	setString(&c.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&c.Metrics.TextfilePath, "LINKODIN_METRICS_FILE")
	setString(&c.Events.NATSURL, "NATS_URL")
	setString(&c.Logging.Level, "LINKODIN_LOG_LEVEL")
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		// An empty DSN falls back to the POSTGRES_* variables.
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage backend redis requires redis_url")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Generation.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("unknown generation provider %q", c.Generation.Provider)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
