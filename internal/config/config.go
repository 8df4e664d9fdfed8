package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Workflow WorkflowConfig `yaml:"workflow"`
	Batch    BatchConfig    `yaml:"batch"`
	Redis    RedisConfig    `yaml:"redis"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with environment override
func (c ServerConfig) GetHost() string {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// WorkflowConfig holds the remote verification workflow settings.
// WebhookURL is the single required value in the whole config: the
// HTTP endpoint that performs the actual deliverability/MX checks.
type WorkflowConfig struct {
	WebhookURL     string `yaml:"webhook_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// Timeout returns the configured timeout as a duration
func (c WorkflowConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BatchConfig holds input acceptance limits for verification batches
type BatchConfig struct {
	MaxAddresses      int      `yaml:"max_addresses"`
	MaxFileBytes      int64    `yaml:"max_file_bytes"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// RedisConfig holds optional Redis settings for progress tracking.
// When disabled, progress is tracked in process memory instead.
type RedisConfig struct {
	Enabled            bool   `yaml:"enabled"`
	Addr               string `yaml:"addr"`
	Password           string `yaml:"password"`
	DB                 int    `yaml:"db"`
	ProgressTTLSeconds int    `yaml:"progress_ttl_seconds"`
}

// ProgressTTL returns the progress snapshot expiry as a duration
func (c RedisConfig) ProgressTTL() time.Duration {
	return time.Duration(c.ProgressTTLSeconds) * time.Second
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Workflow.TimeoutSeconds == 0 {
		cfg.Workflow.TimeoutSeconds = 30
	}
	if cfg.Batch.MaxAddresses == 0 {
		cfg.Batch.MaxAddresses = 10000
	}
	if cfg.Batch.MaxFileBytes == 0 {
		cfg.Batch.MaxFileBytes = 10 * 1024 * 1024
	}
	if len(cfg.Batch.AllowedExtensions) == 0 {
		cfg.Batch.AllowedExtensions = []string{"csv", "txt"}
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.ProgressTTLSeconds == 0 {
		cfg.Redis.ProgressTTLSeconds = 3600
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so the webhook URL can live in .env locally and in real env vars in
// deployment. A missing config file is not an error: defaults plus env
// vars are a complete configuration.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = &Config{}
		cfg.applyDefaults()
	} else if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if url := os.Getenv("WORKFLOW_WEBHOOK_URL"); url != "" {
		cfg.Workflow.WebhookURL = url
	}
	if v := os.Getenv("WORKFLOW_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workflow.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("MAX_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Batch.MaxAddresses = n
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}

	return cfg, nil
}

// Validate checks that required configuration is present. Called once at
// startup so a missing webhook URL fails loudly instead of on first use.
func (cfg *Config) Validate() error {
	if cfg.Workflow.WebhookURL == "" {
		return errors.New("workflow webhook URL is not configured: set workflow.webhook_url in config.yaml or the WORKFLOW_WEBHOOK_URL environment variable")
	}
	return nil
}
