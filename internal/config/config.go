package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once at startup
// and injected into the gateways and orchestrators; business logic never
// reads ambient process state.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Stripe        StripeConfig        `mapstructure:"stripe"`
	Payrix        PayrixConfig        `mapstructure:"payrix"`
	Platform      PlatformConfig      `mapstructure:"platform"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

// CORSConfig holds the cross-origin policy attached to every response.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	MaxAge         int      `mapstructure:"max_age"`
}

// StripeConfig holds the card-network PSP credentials.
type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

// PayrixConfig holds the acquiring-gateway REST API settings.
type PayrixConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// PlatformConfig holds platform-owned business settings: redirect targets,
// statement text, and fee defaults.
type PlatformConfig struct {
	FrontendBaseURL     string  `mapstructure:"frontend_base_url"`
	StatementDescriptor string  `mapstructure:"statement_descriptor"`
	DefaultMCC          string  `mapstructure:"default_mcc"`
	FeePercentage       float64 `mapstructure:"fee_percentage"`
}

// ObservabilityConfig holds logging and tracing configuration.
type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CONNECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows. The secrets
	// have no defaults, so without an explicit binding they could only
	// come from a config file.
	for _, key := range []string{
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.shutdown_timeout",
		"server.cors.allowed_origins",
		"server.cors.allowed_headers",
		"server.cors.allowed_methods",
		"server.cors.max_age",
		"stripe.secret_key",
		"payrix.base_url",
		"payrix.api_key",
		"payrix.request_timeout",
		"platform.frontend_base_url",
		"platform.statement_descriptor",
		"platform.default_mcc",
		"platform.fee_percentage",
		"observability.log_level",
		"observability.jaeger_endpoint",
		"observability.enable_metrics",
		"observability.enable_tracing",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/connect")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields have valid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Stripe.SecretKey == "" {
		errs = append(errs, fmt.Errorf("stripe.secret_key is required"))
	}
	if c.Payrix.BaseURL == "" {
		errs = append(errs, fmt.Errorf("payrix.base_url is required"))
	}
	if c.Payrix.APIKey == "" {
		errs = append(errs, fmt.Errorf("payrix.api_key is required"))
	}
	if c.Platform.FrontendBaseURL == "" {
		errs = append(errs, fmt.Errorf("platform.frontend_base_url is required"))
	}
	if c.Platform.FeePercentage < 0 {
		errs = append(errs, fmt.Errorf("platform.fee_percentage must not be negative"))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allowed_headers",
		[]string{"Content-Type", "Authorization", "X-Requested-With", "Origin", "Accept"})
	v.SetDefault("server.cors.allowed_methods",
		[]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"})
	v.SetDefault("server.cors.max_age", 3600)

	// Payrix defaults
	v.SetDefault("payrix.base_url", "https://test-api.payrix.com")
	v.SetDefault("payrix.request_timeout", "30s")

	// Platform defaults
	v.SetDefault("platform.frontend_base_url", "http://localhost:5173")
	v.SetDefault("platform.statement_descriptor", "INTELEBEE PAY")
	v.SetDefault("platform.default_mcc", "5734")
	v.SetDefault("platform.fee_percentage", 5.0)

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", true)
}
