package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyccore/internal/platform/config"
)

func TestNewWithoutURLIsDisabled(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "mysql://nope"})
	assert.Error(t, err)
}

func TestApplyPool(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/0?pool_size=3&dial_timeout=9s")
	require.NoError(t, err)

	applyPool(opts, config.RedisConfig{PoolSize: 10, ReadTimeout: time.Second})

	assert.Equal(t, 10, opts.PoolSize)
	assert.Equal(t, 9*time.Second, opts.DialTimeout, "unset values keep the URL's setting")
	assert.Equal(t, time.Second, opts.ReadTimeout)
}
