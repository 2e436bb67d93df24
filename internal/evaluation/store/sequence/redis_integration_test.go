//go:build integration

package sequence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/Joenyengs/backend/internal/evaluation/store/sequence"
	"github.com/Joenyengs/backend/pkg/testutil/containers"
)

type RedisSequenceSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	seq   *sequence.Redis
}

func TestRedisSequenceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSequenceSuite))
}

func (s *RedisSequenceSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.seq = sequence.NewRedis(s.redis.Client)
}

func (s *RedisSequenceSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSequenceSuite) TestConcurrentAllocation() {
	ctx := context.Background()
	const callers = 100

	var (
		mu   sync.Mutex
		seen = make(map[int64]bool, callers)
	)
	var g errgroup.Group
	for range callers {
		g.Go(func() error {
			n, err := s.seq.Next(ctx, "ENA2025KXX")
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			seen[n] = true
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Len(seen, callers)
	s.True(seen[1])
	s.True(seen[callers])
}

func (s *RedisSequenceSuite) TestScopesAreIndependent() {
	ctx := context.Background()
	a, err := s.seq.Next(ctx, "ENA2025KXX")
	s.Require().NoError(err)
	b, err := s.seq.Next(ctx, "ENA2025SXX")
	s.Require().NoError(err)
	s.Equal(int64(1), a)
	s.Equal(int64(1), b)
}
