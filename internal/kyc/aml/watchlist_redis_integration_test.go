//go:build integration

package aml

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"kyccore/pkg/testutil/containers"
)

type RedisWatchlistSuite struct {
	suite.Suite
	redis     *containers.RedisContainer
	watchlist *RedisWatchlist
}

func TestRedisWatchlistSuite(t *testing.T) {
	suite.Run(t, new(RedisWatchlistSuite))
}

func (s *RedisWatchlistSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisWatchlistSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.watchlist = NewRedisWatchlist(s.redis.Client, "")
}

func (s *RedisWatchlistSuite) TestAddAndContains() {
	ctx := context.Background()
	s.Require().NoError(s.watchlist.Add(ctx, "AB-123 456", ""))

	listed, err := s.watchlist.Contains(ctx, "ab123456")
	s.Require().NoError(err)
	s.True(listed)

	listed, err = s.watchlist.Contains(ctx, "CD999")
	s.Require().NoError(err)
	s.False(listed)
}
