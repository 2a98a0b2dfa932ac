//go:build integration

package whitelist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"steamgate/internal/whitelist"
	"steamgate/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *whitelist.Redis
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = whitelist.NewRedis(s.redis.Client)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) TestAddContainsRemove() {
	ok, err := s.store.Contains(s.ctx, "76561198000000001")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.Add(s.ctx, "76561198000000001"))

	ok, err = s.store.Contains(s.ctx, "76561198000000001")
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.store.Remove(s.ctx, "76561198000000001"))

	ok, err = s.store.Contains(s.ctx, "76561198000000001")
	s.Require().NoError(err)
	s.False(ok)
}

// TestMembershipIsShared verifies two store instances over the same backend
// see each other's writes, the multi-server deployment case.
func (s *RedisStoreSuite) TestMembershipIsShared() {
	other := whitelist.NewRedis(s.redis.Client)

	s.Require().NoError(s.store.Add(s.ctx, "a"))

	ok, err := other.Contains(s.ctx, "a")
	s.Require().NoError(err)
	s.True(ok)
}
