package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"KYC_ADDR", "KAFKA_BROKERS", "KYC_STORAGE_TIMEOUT", "KYC_STORAGE_RETRIES", "JWT_SIGNING_KEY", "KYC_REVIEW_TOKEN", "KYC_LOCK_TTL", "KYC_WATCHLIST_KEY", "KYC_SUBMIT_RATE_LIMIT", "KYC_SUBMIT_RATE_WINDOW"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.StorageTimeout)
	assert.Equal(t, 2, cfg.StorageRetries)
	assert.False(t, cfg.Kafka.Enabled())
	assert.NotEmpty(t, cfg.JWTSigningKey)
	assert.Empty(t, cfg.ReviewToken)
	assert.Equal(t, 2*time.Minute, cfg.LockTTL)
	assert.Equal(t, "kyc:aml:watchlist", cfg.Redis.WatchlistKey)
	assert.Equal(t, 10, cfg.SubmitRateLimit)
	assert.Equal(t, time.Hour, cfg.SubmitRateWindow)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KYC_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KYC_STORAGE_TIMEOUT", "750ms")
	t.Setenv("KYC_STORAGE_RETRIES", "4")
	t.Setenv("KYC_REVIEW_TOKEN", "review-secret")
	t.Setenv("KYC_LOCK_TTL", "45s")
	t.Setenv("KYC_SUBMIT_RATE_LIMIT", "0")
	t.Setenv("KYC_SUBMIT_RATE_WINDOW", "10m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 750*time.Millisecond, cfg.StorageTimeout)
	assert.Equal(t, 4, cfg.StorageRetries)
	assert.Equal(t, "review-secret", cfg.ReviewToken)
	assert.Equal(t, 45*time.Second, cfg.LockTTL)
	assert.Zero(t, cfg.SubmitRateLimit)
	assert.Equal(t, 10*time.Minute, cfg.SubmitRateWindow)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("KYC_STORAGE_TIMEOUT", "soon")
		_, err := FromEnv()
		require.Error(t, err)
	})
	t.Run("lock ttl", func(t *testing.T) {
		t.Setenv("KYC_LOCK_TTL", "0s")
		_, err := FromEnv()
		require.Error(t, err)
	})
	t.Run("negative submit limit", func(t *testing.T) {
		t.Setenv("KYC_SUBMIT_RATE_LIMIT", "-3")
		_, err := FromEnv()
		require.Error(t, err)
	})
	t.Run("negative retries", func(t *testing.T) {
		t.Setenv("KYC_STORAGE_RETRIES", "-1")
		_, err := FromEnv()
		require.Error(t, err)
	})
}
