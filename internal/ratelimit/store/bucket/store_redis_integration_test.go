//go:build integration

package bucket_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Joenyengs/backend/internal/ratelimit/models"
	"github.com/Joenyengs/backend/internal/ratelimit/store/bucket"
	"github.com/Joenyengs/backend/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *bucket.RedisBucketStore
}

func TestRedisBucketStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = bucket.NewRedisBucketStore(s.redis.Client)
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisBucketStoreSuite) TestLimitIsEnforced() {
	ctx := context.Background()
	key := models.Key(models.ClassWrite, "actor-1")

	for i := range 3 {
		result, err := s.store.Allow(ctx, key, 3, time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(2-i, result.Remaining)
	}

	result, err := s.store.Allow(ctx, key, 3, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Positive(result.RetryAfter)

	ttl, err := s.redis.Client.PTTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}

func (s *RedisBucketStoreSuite) TestWindowExpires() {
	ctx := context.Background()
	key := models.Key(models.ClassRead, "actor-2")

	for range 2 {
		_, err := s.store.Allow(ctx, key, 2, 200*time.Millisecond)
		s.Require().NoError(err)
	}
	result, err := s.store.Allow(ctx, key, 2, 200*time.Millisecond)
	s.Require().NoError(err)
	s.False(result.Allowed)

	s.Eventually(func() bool {
		r, err := s.store.Allow(ctx, key, 2, 200*time.Millisecond)
		return err == nil && r.Allowed
	}, 2*time.Second, 50*time.Millisecond)
}

func (s *RedisBucketStoreSuite) TestReset() {
	ctx := context.Background()
	key := models.Key(models.ClassWrite, "actor-3")

	_, err := s.store.Allow(ctx, key, 1, time.Minute)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Reset(ctx, key))

	result, err := s.store.Allow(ctx, key, 1, time.Minute)
	s.Require().NoError(err)
	s.True(result.Allowed)
}
