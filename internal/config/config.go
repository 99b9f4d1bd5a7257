package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Value precedence order:
// 1. Vault (if configured) - Highest priority
// 2. Config file values
// 3. Environment variables (INTERVUE_GENERATION_APITOKEN, etc.)
// 4. Default values - Lowest priority
type Config struct {
	Generation    GenerationConfig    `mapstructure:"generation"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Audio         AudioConfig         `mapstructure:"audio"`
	Interview     InterviewConfig     `mapstructure:"interview"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// GenerationConfig holds question-generation backend configuration
type GenerationConfig struct {
	Provider       string               `mapstructure:"provider"` // "huggingface" or "gemini"
	Endpoint       string               `mapstructure:"endpoint"`
	Model          string               `mapstructure:"model"`
	APIToken       string               `mapstructure:"apiToken"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	MaxRetries     int                  `mapstructure:"maxRetries"`
	Temperature    float32              `mapstructure:"temperature"`
	TopP           float32              `mapstructure:"topP"`
	MaxNewTokens   int                  `mapstructure:"maxNewTokens"`
	WarmupDelay    time.Duration        `mapstructure:"warmupDelay"` // base wait after a 503 "warming up" response
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// TranscriptionConfig holds speech-to-text backend configuration.
// Methods lists backend names in fallback order.
type TranscriptionConfig struct {
	Methods    []string          `mapstructure:"methods"`
	Endpoints  map[string]string `mapstructure:"endpoints"`
	APIToken   string            `mapstructure:"apiToken"`
	Timeout    time.Duration     `mapstructure:"timeout"`
	MaxRetries int               `mapstructure:"maxRetries"`
}

// AudioConfig holds audio capture/normalization configuration
type AudioConfig struct {
	SampleRate int `mapstructure:"sampleRate"`
}

// InterviewConfig holds interview flow configuration
type InterviewConfig struct {
	MinQuestions int `mapstructure:"minQuestions"`
	MaxQuestions int `mapstructure:"maxQuestions"`
}

// StorageConfig holds on-disk layout configuration
type StorageConfig struct {
	DataDir       string        `mapstructure:"dataDir"`
	RolesFile     string        `mapstructure:"rolesFile"`
	ReportsDir    string        `mapstructure:"reportsDir"`
	SessionsDir   string        `mapstructure:"sessionsDir"`
	WatchCatalog  bool          `mapstructure:"watchCatalog"`
	WatchDebounce time.Duration `mapstructure:"watchDebounce"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"`

	// Request size limit in bytes
	MaxRequestSize int64 `mapstructure:"maxRequestSize"`

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	Debug            bool     `mapstructure:"debug"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	ConsoleOutput   bool              `mapstructure:"consoleOutput"`
	SampleRate      float64           `mapstructure:"sampleRate"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	Console         ConsoleConfig     `mapstructure:"console"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	BackendCheckTimeout time.Duration `mapstructure:"backendCheckTimeout"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set up environment variable handling
	v.SetEnvPrefix("INTERVUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set up config file handling
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/intervue/")
	v.AddConfigPath("$HOME/.intervue")
	v.AddConfigPath(".")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal the configuration into the Config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply environment fallbacks and derived values
	config.applyFallbacks()

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Generation.Provider != "huggingface" && c.Generation.Provider != "gemini" {
		return fmt.Errorf("unsupported generation provider: %s", c.Generation.Provider)
	}

	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation timeout must be positive")
	}

	if c.Generation.MaxRetries < 0 {
		return fmt.Errorf("generation maxRetries must not be negative")
	}

	if c.Interview.MinQuestions < 1 {
		return fmt.Errorf("interview minQuestions must be at least 1")
	}

	if c.Interview.MaxQuestions < c.Interview.MinQuestions {
		return fmt.Errorf("interview maxQuestions (%d) must not be below minQuestions (%d)",
			c.Interview.MaxQuestions, c.Interview.MinQuestions)
	}

	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sampleRate must be positive")
	}

	if len(c.Transcription.Methods) == 0 {
		return fmt.Errorf("at least one transcription method is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}

// applyFallbacks applies environment variable fallbacks and derived values
func (c *Config) applyFallbacks() {
	// Parse API keys from environment variable if not set in config
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("INTERVUE_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = strings.Split(apiKeysEnv, ",")
			for i, key := range c.Server.APIKeys {
				c.Server.APIKeys[i] = strings.TrimSpace(key)
			}
		}
	}

	// Legacy token variable support
	if c.Generation.APIToken == "" {
		c.Generation.APIToken = os.Getenv("HF_API_TOKEN")
	}

	// Set dynamic service instance ID if not specified
	if c.Observability.ServiceInstance == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-%s", c.Observability.ServiceName, hostname)
		} else {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-1", c.Observability.ServiceName)
		}
	}

	// Debug runs imply console exporters
	if c.App.Debug && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}
