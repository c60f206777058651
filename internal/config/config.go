package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/juicepos/internal/domain/policy"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	WhatsApp  WhatsAppConfig
	Pricing   PricingConfig
	Policy    PolicyConfig
	Sheets    SheetsConfig
	MongoDB   MongoDBConfig
	Kafka     KafkaConfig
	Events    EventsConfig
	Reporting ReportingConfig
	Tracing   TracingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// LogConfig selects the zap level.
type LogConfig struct {
	Level string
}

// StoreConfig locates the pebble data directory.
type StoreConfig struct {
	Dir      string
	InMemory bool
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
// Without an access token, bills are rendered as wa.me links instead of being sent.
type WhatsAppConfig struct {
	AccessToken        string
	PhoneNumberID      string
	BaseURL            string
	APIVersion         string
	LinkBaseURL        string
	OwnerPhone         string
	DefaultCountryCode string
	CurrencySymbol     string
	SendTimeout        time.Duration
}

// Enabled reports whether the Cloud API is configured.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != ""
}

// PricingConfig holds the dynamic pricing knobs.
type PricingConfig struct {
	DefaultMarkup decimal.Decimal
	RoundingUnit  decimal.Decimal
}

// PolicyConfig holds the business rule switches.
type PolicyConfig struct {
	AllowOversell          bool
	NoRecipeMeansUnlimited bool
	StrictIngredients      bool
	RepriceWithoutRecipe   bool
}

// Policy converts the switches into the domain policy.
func (p PolicyConfig) Policy() policy.Policy {
	out := policy.Policy{
		AllowOversell:          p.AllowOversell,
		NoRecipeMeansUnlimited: p.NoRecipeMeansUnlimited,
		MissingIngredient:      policy.SkipMissing,
		RepriceWithoutRecipe:   p.RepriceWithoutRecipe,
	}
	if p.StrictIngredients {
		out.MissingIngredient = policy.RejectMissing
	}
	return out
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	SalesRange      string
}

// Enabled reports whether the sales ledger should be wired.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether the report archive should be wired.
func (m MongoDBConfig) Enabled() bool { return m.URI != "" }

// KafkaConfig holds the sale event stream settings.
type KafkaConfig struct {
	Brokers string
	Topic   string
}

// Enabled reports whether sale events are streamed.
func (k KafkaConfig) Enabled() bool { return k.Brokers != "" }

// EventsConfig tunes post-commit handlers.
type EventsConfig struct {
	HandlerTimeout time.Duration
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// Enabled reports whether the daily summary job runs.
func (r ReportingConfig) Enabled() bool { return r.CronSchedule != "" }

// TracingConfig holds OTLP exporter settings.
type TracingConfig struct {
	Endpoint    string
	ServiceName string
}

// Enabled reports whether spans are exported.
func (t TracingConfig) Enabled() bool { return t.Endpoint != "" }

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	var p parser
	cfg := &Config{
		Server: ServerConfig{
			Port:            getenvWithDefault("APP_PORT", "8080"),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Dir:      getenvWithDefault("STORE_DIR", "data/juicepos"),
			InMemory: p.boolean("STORE_IN_MEMORY", false),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:        os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:      os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:            getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:         getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			LinkBaseURL:        getenvWithDefault("WHATSAPP_LINK_BASE_URL", "https://wa.me"),
			OwnerPhone:         os.Getenv("WHATSAPP_OWNER_PHONE"),
			DefaultCountryCode: getenvWithDefault("DEFAULT_COUNTRY_CODE", "91"),
			CurrencySymbol:     getenvWithDefault("CURRENCY_SYMBOL", "₹"),
			SendTimeout:        p.duration("WHATSAPP_SEND_TIMEOUT", 4*time.Second),
		},
		Pricing: PricingConfig{
			DefaultMarkup: p.decimal("DEFAULT_MARKUP", "0.3"),
			RoundingUnit:  p.decimal("PRICE_ROUNDING_UNIT", "5"),
		},
		Policy: PolicyConfig{
			AllowOversell:          p.boolean("ALLOW_OVERSELL", true),
			NoRecipeMeansUnlimited: p.boolean("NO_RECIPE_MEANS_UNLIMITED", true),
			StrictIngredients:      p.boolean("STRICT_INGREDIENTS", false),
			RepriceWithoutRecipe:   p.boolean("REPRICE_WITHOUT_RECIPE", false),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			SalesRange:      getenvWithDefault("GOOGLE_SHEET_SALES_RANGE", "Sales!A:G"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "juicepos"),
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Topic:   getenvWithDefault("KAFKA_SALES_TOPIC", "juicepos.sales"),
		},
		Events: EventsConfig{
			HandlerTimeout: p.duration("EVENT_HANDLER_TIMEOUT", 5*time.Second),
		},
		Reporting: ReportingConfig{
			CronSchedule: os.Getenv("REPORT_CRON_SCHEDULE"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		Tracing: TracingConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: getenvWithDefault("OTEL_SERVICE_NAME", "juicepos"),
		},
	}

	if err := p.err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if !c.Store.InMemory && c.Store.Dir == "" {
		return errors.New("STORE_DIR must be provided unless STORE_IN_MEMORY is set")
	}

	if c.WhatsApp.AccessToken != "" && c.WhatsApp.PhoneNumberID == "" {
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided with WHATSAPP_TOKEN")
	}

	if c.WhatsApp.BaseURL == "" {
		return errors.New("WHATSAPP_BASE_URL must not be empty")
	}

	if c.WhatsApp.APIVersion == "" {
		return errors.New("WHATSAPP_API_VERSION must not be empty")
	}

	// Bills are sent inside the event handler deadline and must leave it room to log.
	if c.Events.HandlerTimeout > 0 && c.WhatsApp.SendTimeout >= c.Events.HandlerTimeout {
		return errors.New("WHATSAPP_SEND_TIMEOUT must be shorter than EVENT_HANDLER_TIMEOUT")
	}

	if c.Pricing.DefaultMarkup.IsNegative() {
		return errors.New("DEFAULT_MARKUP must not be negative")
	}

	if !c.Pricing.RoundingUnit.IsPositive() {
		return errors.New("PRICE_ROUNDING_UNIT must be positive")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return errors.New("KAFKA_SALES_TOPIC must not be empty")
	}

	if c.Reporting.Enabled() {
		if c.Reporting.Timezone == "" {
			return errors.New("TIMEZONE must be provided")
		}
		if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
			return fmt.Errorf("TIMEZONE: %w", err)
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parser collects conversion errors so Load can report them together.
type parser struct {
	errs []error
}

func (p *parser) boolean(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) decimal(key, fallback string) decimal.Decimal {
	v, err := decimal.NewFromString(getenvWithDefault(key, fallback))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return decimal.RequireFromString(fallback)
	}
	return v
}

func (p *parser) err() error { return errors.Join(p.errs...) }
