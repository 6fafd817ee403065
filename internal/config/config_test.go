package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Stripe: StripeConfig{
			SecretKey: "sk_test_123",
		},
		Payrix: PayrixConfig{
			BaseURL: "https://test-api.payrix.com",
			APIKey:  "payrix-key",
		},
		Platform: PlatformConfig{
			FrontendBaseURL:     "http://localhost:5173",
			StatementDescriptor: "INTELEBEE PAY",
			DefaultMCC:          "5734",
			FeePercentage:       5,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_MissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		expected string
	}{
		{"missing stripe key", func(c *Config) { c.Stripe.SecretKey = "" }, "stripe.secret_key"},
		{"missing payrix base url", func(c *Config) { c.Payrix.BaseURL = "" }, "payrix.base_url"},
		{"missing payrix api key", func(c *Config) { c.Payrix.APIKey = "" }, "payrix.api_key"},
		{"missing frontend base url", func(c *Config) { c.Platform.FrontendBaseURL = "" }, "platform.frontend_base_url"},
		{"negative fee percentage", func(c *Config) { c.Platform.FeePercentage = -1 }, "platform.fee_percentage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Stripe.SecretKey = ""
	cfg.Payrix.APIKey = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stripe.secret_key")
	assert.Contains(t, err.Error(), "payrix.api_key")
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CONNECT_STRIPE_SECRET_KEY", "sk_test_env")
	t.Setenv("CONNECT_PAYRIX_API_KEY", "payrix-env-key")
	t.Setenv("CONNECT_PLATFORM_FEE_PERCENTAGE", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk_test_env", cfg.Stripe.SecretKey)
	assert.Equal(t, "payrix-env-key", cfg.Payrix.APIKey)
	assert.Equal(t, 2.5, cfg.Platform.FeePercentage)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://test-api.payrix.com", cfg.Payrix.BaseURL)
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("CONNECT_STRIPE_SECRET_KEY", "")
	t.Setenv("CONNECT_PAYRIX_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stripe.secret_key is required")
	assert.Contains(t, err.Error(), "payrix.api_key is required")
}
