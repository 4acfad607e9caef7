package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := &Config{Env: EnvDev}
	c.Stripe.SecretKey = "sk_test_abc"
	c.Stripe.WebhookSecret = "whsec_real_secret"
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing secret key",
			mutate:  func(c *Config) { c.Stripe.SecretKey = "" },
			wantErr: "stripe.secret_key",
		},
		{
			name:    "missing webhook secret",
			mutate:  func(c *Config) { c.Stripe.WebhookSecret = "" },
			wantErr: "stripe.webhook_secret",
		},
		{
			name:    "placeholder webhook secret",
			mutate:  func(c *Config) { c.Stripe.WebhookSecret = "whsec_your_webhook_secret_here" },
			wantErr: "placeholder",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAllowedOrigins_PerEnvironmentDefaults(t *testing.T) {
	dev := validConfig()
	require.Contains(t, dev.AllowedOrigins(), "http://localhost:3000")

	prod := validConfig()
	prod.Env = EnvProd
	require.Equal(t, []string{"https://innercompassparenting.netlify.app"}, prod.AllowedOrigins())

	require.NotEqual(t, dev.AllowedOrigins(), prod.AllowedOrigins())
}

func TestAllowedOrigins_ExplicitOverride(t *testing.T) {
	c := validConfig()
	c.CORS.AllowedOrigins = []string{"https://staging.example.com"}
	require.Equal(t, []string{"https://staging.example.com"}, c.AllowedOrigins())
}

func TestNew_FailsWithoutSecrets(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	_, err := New()
	require.Error(t, err)
}

func TestNew_ReadsSecretsFromEnv(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_env")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_env")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, "sk_test_env", c.Stripe.SecretKey)
	require.Equal(t, "whsec_env", c.Stripe.WebhookSecret)
	require.Equal(t, "CA", c.Stripe.AllowedCountry)
	require.Equal(t, 8888, c.Server.Port)
}
