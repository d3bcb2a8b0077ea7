package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig

	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	Postgres   PostgresConfig

	// GitHub App integration
	GitHub  GitHubConfig
	Webhook WebhookConfig

	// Background processing
	Worker WorkerConfig

	// LLM provider abstraction
	LLM LLMConfig

	// Health score policy
	Health HealthConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// GitHubConfig configures GitHub App authentication and API access.
type GitHubConfig struct {
	AppID          string
	PrivateKey     string // PEM, may contain literal \n
	APIBase        string
	JWTExpiry      time.Duration // app JWT lifetime
	TokenMargin    time.Duration // refresh installation tokens this early
	RequestTimeout time.Duration
}

// PrivateKeyBytes returns the PEM key with escaped newlines expanded.
func (c GitHubConfig) PrivateKeyBytes() []byte {
	return []byte(strings.ReplaceAll(c.PrivateKey, `\n`, "\n"))
}

type WebhookConfig struct {
	Secret          string
	AllowedIPs      []string // source allowlist, plain IPs or CIDRs; empty disables the check
	RateLimitPerMin int
	DedupWindow     time.Duration // delivery-id retention, must exceed GitHub's redelivery window
	DedupCapacity   int
}

type WorkerConfig struct {
	Concurrency  int
	MaxAttempts  int
	BackoffBase  time.Duration
	BackoffCap   time.Duration
	PollInterval time.Duration
}

// LLMConfig holds configuration for the LLM provider abstraction layer.
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RequestTimeout  time.Duration    `yaml:"request_timeout"`
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
}

// HealthConfig holds the health-score weighting policy. The weights are
// policy choices, configurable rather than hard-coded.
type HealthConfig struct {
	SecurityWeight  int
	LintWeight      int
	CoverageWeight  int
	FreshnessWeight int
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine: env vars + defaults
	}

	cfg := &Config{
		Environment: EnvironmentConfig{
			Name: viper.GetString("environment.name"),
		},
		HTTPServer: HTTPServerConfig{
			Port: viper.GetInt("http_server.port"),
			Mode: viper.GetString("http_server.mode"),
		},
		Logger: LoggerConfig{
			Level:        viper.GetString("logger.level"),
			Mode:         viper.GetString("logger.mode"),
			Encoding:     viper.GetString("logger.encoding"),
			ColorEnabled: viper.GetBool("logger.color_enabled"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("postgres.host"),
			Port:     viper.GetInt("postgres.port"),
			User:     viper.GetString("postgres.user"),
			Password: expandEnvVar(viper.GetString("postgres.password")),
			Database: viper.GetString("postgres.database"),
			SSLMode:  viper.GetString("postgres.ssl_mode"),
		},
		GitHub: GitHubConfig{
			AppID:          expandEnvVar(viper.GetString("github.app_id")),
			PrivateKey:     expandEnvVar(viper.GetString("github.private_key")),
			APIBase:        viper.GetString("github.api_base"),
			JWTExpiry:      viper.GetDuration("github.jwt_expiry"),
			TokenMargin:    viper.GetDuration("github.token_margin"),
			RequestTimeout: viper.GetDuration("github.request_timeout"),
		},
		Webhook: WebhookConfig{
			Secret:          expandEnvVar(viper.GetString("webhook.secret")),
			AllowedIPs:      viper.GetStringSlice("webhook.allowed_ips"),
			RateLimitPerMin: viper.GetInt("webhook.rate_limit_per_min"),
			DedupWindow:     viper.GetDuration("webhook.dedup_window"),
			DedupCapacity:   viper.GetInt("webhook.dedup_capacity"),
		},
		Worker: WorkerConfig{
			Concurrency:  viper.GetInt("worker.concurrency"),
			MaxAttempts:  viper.GetInt("worker.max_attempts"),
			BackoffBase:  viper.GetDuration("worker.backoff_base"),
			BackoffCap:   viper.GetDuration("worker.backoff_cap"),
			PollInterval: viper.GetDuration("worker.poll_interval"),
		},
		Health: HealthConfig{
			SecurityWeight:  viper.GetInt("health.security_weight"),
			LintWeight:      viper.GetInt("health.lint_weight"),
			CoverageWeight:  viper.GetInt("health.coverage_weight"),
			FreshnessWeight: viper.GetInt("health.freshness_weight"),
		},
	}

	if err := loadLLMConfig(&cfg.LLM); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.database", "quantumreview")
	viper.SetDefault("postgres.ssl_mode", "disable")

	viper.SetDefault("github.api_base", "https://api.github.com")
	viper.SetDefault("github.jwt_expiry", "10m")
	viper.SetDefault("github.token_margin", "5m")
	viper.SetDefault("github.request_timeout", "15s")

	viper.SetDefault("webhook.rate_limit_per_min", 300)
	viper.SetDefault("webhook.dedup_window", "1h")
	viper.SetDefault("webhook.dedup_capacity", 10000)

	viper.SetDefault("worker.concurrency", 4)
	viper.SetDefault("worker.max_attempts", 5)
	viper.SetDefault("worker.backoff_base", "2s")
	viper.SetDefault("worker.backoff_cap", "5m")
	viper.SetDefault("worker.poll_interval", "1s")

	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.request_timeout", "60s")

	viper.SetDefault("health.security_weight", 50)
	viper.SetDefault("health.lint_weight", 20)
	viper.SetDefault("health.coverage_weight", 20)
	viper.SetDefault("health.freshness_weight", 10)
}

// loadLLMConfig reads the llm.providers list and validates it.
func loadLLMConfig(cfg *LLMConfig) error {
	cfg.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.RequestTimeout = viper.GetDuration("llm.request_timeout")

	raw := viper.Get("llm.providers")
	if raw == nil {
		return nil // no providers configured; callers decide whether that is fatal
	}

	list, ok := raw.([]interface{})
	if !ok {
		return fmt.Errorf("llm.providers must be a list")
	}

	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			return fmt.Errorf("llm.providers entry must be a map")
		}
		cfg.Providers = append(cfg.Providers, ProviderConfig{
			Name:     getStringFromMap(m, "name"),
			Enabled:  getBoolFromMap(m, "enabled"),
			Priority: getIntFromMap(m, "priority"),
			APIKey:   expandEnvVar(getStringFromMap(m, "api_key")),
			BaseURL:  getStringFromMap(m, "base_url"),
			Model:    getStringFromMap(m, "model"),
		})
	}

	return validateLLMConfig(cfg)
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if provider.Model == "" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}

		if provider.Enabled {
			enabledCount++

			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}
			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true

			if provider.APIKey == "" {
				fmt.Printf("Warning: provider %s has no API key configured\n", provider.Name)
			}
		}
	}

	if len(cfg.Providers) > 0 && enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
