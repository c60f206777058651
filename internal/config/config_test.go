package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/juicepos/internal/domain/policy"
)

// clearEnv unsets every variable Load reads so host settings do not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "STORE_DIR", "STORE_IN_MEMORY",
		"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION",
		"WHATSAPP_LINK_BASE_URL", "WHATSAPP_OWNER_PHONE", "DEFAULT_COUNTRY_CODE", "CURRENCY_SYMBOL",
		"WHATSAPP_SEND_TIMEOUT", "DEFAULT_MARKUP", "PRICE_ROUNDING_UNIT", "ALLOW_OVERSELL",
		"NO_RECIPE_MEANS_UNLIMITED", "STRICT_INGREDIENTS", "REPRICE_WITHOUT_RECIPE",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "GOOGLE_SHEET_SALES_RANGE",
		"MONGODB_URI", "MONGODB_DB_NAME", "KAFKA_BROKERS", "KAFKA_SALES_TOPIC", "EVENT_HANDLER_TIMEOUT",
		"REPORT_CRON_SCHEDULE", "TIMEZONE", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "data/juicepos", cfg.Store.Dir)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.Equal(t, "91", cfg.WhatsApp.DefaultCountryCode)
	assert.Equal(t, "₹", cfg.WhatsApp.CurrencySymbol)
	assert.Less(t, cfg.WhatsApp.SendTimeout, cfg.Events.HandlerTimeout)
	assert.True(t, cfg.Pricing.DefaultMarkup.Equal(decimal.RequireFromString("0.3")))
	assert.True(t, cfg.Pricing.RoundingUnit.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, policy.Default(), cfg.Policy.Policy())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.MongoDB.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Reporting.Enabled())
	assert.False(t, cfg.Tracing.Enabled())
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"APP_PORT=9090\n"+
			"WHATSAPP_TOKEN=tok\n"+
			"WHATSAPP_PHONE_NUMBER_ID=123\n"+
			"STRICT_INGREDIENTS=true\n"+
			"ALLOW_OVERSELL=false\n"+
			"PRICE_ROUNDING_UNIT=10\n"+
			"KAFKA_BROKERS=localhost:9092\n"+
			"REPORT_CRON_SCHEDULE=0 21 * * *\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.WhatsApp.Enabled())
	assert.True(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.Reporting.Enabled())
	assert.True(t, cfg.Pricing.RoundingUnit.Equal(decimal.NewFromInt(10)))

	p := cfg.Policy.Policy()
	assert.Equal(t, policy.RejectMissing, p.MissingIngredient)
	assert.False(t, p.AllowOversell)
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOW_OVERSELL", "sometimes")
	t.Setenv("DEFAULT_MARKUP", "thirty")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALLOW_OVERSELL")
	assert.Contains(t, err.Error(), "DEFAULT_MARKUP")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Store:    StoreConfig{Dir: "data"},
			WhatsApp: WhatsAppConfig{BaseURL: "https://graph.facebook.com", APIVersion: "v20.0"},
			Pricing:  PricingConfig{DefaultMarkup: decimal.RequireFromString("0.3"), RoundingUnit: decimal.NewFromInt(5)},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"no port", func(c *Config) { c.Server.Port = "" }, "APP_PORT"},
		{"token without phone id", func(c *Config) { c.WhatsApp.AccessToken = "t" }, "WHATSAPP_PHONE_NUMBER_ID"},
		{"zero rounding unit", func(c *Config) { c.Pricing.RoundingUnit = decimal.Zero }, "PRICE_ROUNDING_UNIT"},
		{"negative markup", func(c *Config) { c.Pricing.DefaultMarkup = decimal.NewFromInt(-1) }, "DEFAULT_MARKUP"},
		{"half sheets config", func(c *Config) { c.Sheets.SpreadsheetID = "abc" }, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"send timeout outlasts handler timeout", func(c *Config) {
			c.WhatsApp.SendTimeout = 10 * time.Second
			c.Events.HandlerTimeout = 5 * time.Second
		}, "WHATSAPP_SEND_TIMEOUT"},
		{"send timeout within handler timeout", func(c *Config) {
			c.WhatsApp.SendTimeout = 4 * time.Second
			c.Events.HandlerTimeout = 5 * time.Second
		}, ""},
		{"bad timezone", func(c *Config) {
			c.Reporting = ReportingConfig{CronSchedule: "@daily", Timezone: "Mars/Olympus"}
		}, "TIMEZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
