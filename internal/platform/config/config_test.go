package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/srgjo27/stay_engine/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GUEST_JWT_SECRET", "secret")
	t.Setenv("ADMIN_API_KEY", "admin")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "UTC", cfg.DefaultTimezone)
	assert.Equal(t, "VND", cfg.DefaultCurrency)
	assert.Equal(t, 30*time.Minute, cfg.PaymentHoldTTL)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte(
		"GUEST_JWT_SECRET=from-file\nADMIN_API_KEY=admin\nKAFKA_BROKERS=k1:9092, k2:9092\nPAYMENT_HOLD_TTL=15m\n",
	), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"ADMIN_API_KEY", "KAFKA_BROKERS", "PAYMENT_HOLD_TTL"} {
			os.Unsetenv(k)
		}
	})

	t.Setenv("DEFAULT_TIMEZONE", "Asia/Ho_Chi_Minh")
	t.Setenv("GUEST_JWT_SECRET", "from-env")

	cfg, err := config.Load(env)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.GuestJWTSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 15*time.Minute, cfg.PaymentHoldTTL)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.DefaultTimezone)
}

func TestLoad_Invalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Run("no secret", func(t *testing.T) {
		t.Setenv("GUEST_JWT_SECRET", "")
		t.Setenv("ADMIN_API_KEY", "admin")
		_, err := config.Load(missing)
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("GUEST_JWT_SECRET", "secret")
		t.Setenv("ADMIN_API_KEY", "admin")
		t.Setenv("PAYMENT_HOLD_TTL", "soon")
		_, err := config.Load(missing)
		assert.Error(t, err)
	})

	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("GUEST_JWT_SECRET", "secret")
		t.Setenv("ADMIN_API_KEY", "admin")
		t.Setenv("DEFAULT_TIMEZONE", "Mars/Olympus")
		_, err := config.Load(missing)
		assert.Error(t, err)
	})
}
