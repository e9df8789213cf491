// Package config loads dashboard-api settings from defaults, an optional YAML
// file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pricing"
)

// PaymentsMode selects the PaymentsPlatform adapter.
type PaymentsMode string

const (
	PaymentsModeStripe  PaymentsMode = "stripe"
	PaymentsModeSandbox PaymentsMode = "sandbox"
)

// Config holds every setting of the API server.
type Config struct {
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`

	PaymentsMode    PaymentsMode `mapstructure:"payments_mode"`
	StripeSecretKey string       `mapstructure:"stripe_secret_key"`
	Currency        string       `mapstructure:"currency"`

	PricingMode     string `mapstructure:"pricing_mode"`
	PlatformFeeRate string `mapstructure:"platform_fee_rate"`
	CourierFlatFee  int64  `mapstructure:"courier_flat_fee"`
	DemoAmount      int64  `mapstructure:"demo_amount"`

	DemoOrderID             string `mapstructure:"demo_order_id"`
	DemoRestaurantAccountID string `mapstructure:"demo_restaurant_account_id"`
	DemoCourierAccountID    string `mapstructure:"demo_courier_account_id"`

	RequirePaymentSucceeded bool `mapstructure:"require_payment_succeeded"`
	LogCapacity             int  `mapstructure:"log_capacity"`

	RedisAddr   string `mapstructure:"redis_addr"`
	JournalPath string `mapstructure:"journal_path"`

	OtelEnabled     bool   `mapstructure:"otel_enabled"`
	OtelServiceName string `mapstructure:"otel_service_name"`
	LogLevel        string `mapstructure:"log_level"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("payments_mode", string(PaymentsModeSandbox))
	v.SetDefault("stripe_secret_key", "")
	v.SetDefault("currency", "usd")
	v.SetDefault("pricing_mode", string(pricing.ModeFixed))
	v.SetDefault("platform_fee_rate", "0.15")
	v.SetDefault("courier_flat_fee", 250)
	v.SetDefault("demo_amount", 3000)
	v.SetDefault("demo_order_id", "order_demo_001")
	v.SetDefault("demo_restaurant_account_id", "acct_demo_restaurant_001")
	v.SetDefault("demo_courier_account_id", "acct_demo_courier_001")
	v.SetDefault("require_payment_succeeded", false)
	v.SetDefault("log_capacity", 50)
	v.SetDefault("redis_addr", "")
	v.SetDefault("journal_path", "")
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_service_name", "dashboard-api")
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit_rps", 20)
	v.SetDefault("rate_limit_burst", 40)
}

// Load reads the file named by CONFIG_FILE, if any, then the environment.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.PaymentsMode {
	case PaymentsModeSandbox:
	case PaymentsModeStripe:
		if c.StripeSecretKey == "" {
			return fmt.Errorf("config: STRIPE_SECRET_KEY is required when PAYMENTS_MODE=%s", PaymentsModeStripe)
		}
	default:
		return fmt.Errorf("config: unknown PAYMENTS_MODE %q", c.PaymentsMode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	if c.DemoAmount <= 0 {
		return fmt.Errorf("config: DEMO_AMOUNT must be positive, got %d", c.DemoAmount)
	}
	_, err := c.PricingPolicy()
	return err
}

// PricingPolicy builds the policy selected by PRICING_MODE.
func (c *Config) PricingPolicy() (pricing.Policy, error) {
	var policy pricing.Policy
	switch pricing.Mode(c.PricingMode) {
	case pricing.ModeFixed:
		policy = pricing.FixedPolicy()
	case pricing.ModePercentage:
		rate, err := decimal.NewFromString(c.PlatformFeeRate)
		if err != nil {
			return pricing.Policy{}, fmt.Errorf("config: PLATFORM_FEE_RATE %q: %w", c.PlatformFeeRate, err)
		}
		policy = pricing.PercentagePolicy(rate, c.CourierFlatFee)
	default:
		return pricing.Policy{}, fmt.Errorf("config: unknown PRICING_MODE %q", c.PricingMode)
	}
	if err := policy.Validate(); err != nil {
		return pricing.Policy{}, fmt.Errorf("config: %w", err)
	}
	return policy, nil
}

// DemoAccounts are the registry defaults.
func (c *Config) DemoAccounts() entity.DemoAccounts {
	return entity.DemoAccounts{
		RestaurantAccountID: c.DemoRestaurantAccountID,
		CourierAccountID:    c.DemoCourierAccountID,
	}
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
