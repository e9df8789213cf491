package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/foodnow-connect-demo/internal/pricing"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, PaymentsModeSandbox, cfg.PaymentsMode)
	assert.Equal(t, "usd", cfg.Currency)
	assert.Equal(t, int64(3000), cfg.DemoAmount)
	assert.Equal(t, "order_demo_001", cfg.DemoOrderID)
	assert.Equal(t, 50, cfg.LogCapacity)
	assert.False(t, cfg.RequirePaymentSucceeded)
	assert.Equal(t, "acct_demo_restaurant_001", cfg.DemoAccounts().RestaurantAccountID)

	policy, err := cfg.PricingPolicy()
	require.NoError(t, err)
	assert.Equal(t, pricing.ModeFixed, policy.Mode)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PRICING_MODE", "percentage")
	t.Setenv("PLATFORM_FEE_RATE", "0.10")
	t.Setenv("COURIER_FLAT_FEE", "300")
	t.Setenv("REQUIRE_PAYMENT_SUCCEEDED", "true")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.RequirePaymentSucceeded)

	policy, err := cfg.PricingPolicy()
	require.NoError(t, err)
	assert.Equal(t, pricing.ModePercentage, policy.Mode)
	assert.True(t, policy.FeeRate.Equal(decimal.RequireFromString("0.10")))
	assert.Equal(t, int64(300), policy.CourierFlatFee)
}

func TestFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7070\ncurrency: eur\ndemo_order_id: order_file\n"), 0o600))
	t.Setenv("CURRENCY", "gbp")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "gbp", cfg.Currency)
	assert.Equal(t, "order_file", cfg.DemoOrderID)
}

func TestValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"stripe without key": {"PAYMENTS_MODE": "stripe"},
		"unknown payments":   {"PAYMENTS_MODE": "paypal"},
		"unknown pricing":    {"PRICING_MODE": "tiered"},
		"bad fee rate":       {"PRICING_MODE": "percentage", "PLATFORM_FEE_RATE": "abc"},
		"fee rate above one": {"PRICING_MODE": "percentage", "PLATFORM_FEE_RATE": "1.5"},
		"zero demo amount":   {"DEMO_AMOUNT": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadFile("")
			assert.Error(t, err)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
