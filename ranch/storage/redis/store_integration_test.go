//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nonibytes/ranch/internal/testutil/containers"
	"github.com/nonibytes/ranch/ranch"
	"github.com/nonibytes/ranch/ranch/storage"
	ranchredis "github.com/nonibytes/ranch/ranch/storage/redis"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *ranchredis.Store
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	st, err := ranchredis.Dial(context.Background(), s.redis.Addr, "", 0, ranchredis.WithPrefix("test"))
	s.Require().NoError(err)
	s.store = st
}

func (s *RedisStoreSuite) TearDownSuite() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestEmpty() {
	_, err := s.store.Latest(context.Background())
	s.True(ranch.IsKind(err, ranch.ErrNotFound))

	list, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *RedisStoreSuite) TestPutLatestList() {
	ctx := context.Background()
	older := time.Date(2016, 2, 5, 12, 0, 0, 0, time.UTC)
	newer := older.Add(time.Minute)

	_, err := s.store.Put(ctx, storage.Export{Version: newer, Data: []byte("two")})
	s.Require().NoError(err)
	_, err = s.store.Put(ctx, storage.Export{Version: older, Data: []byte("one")})
	s.Require().NoError(err)

	latest, err := s.store.Latest(ctx)
	s.Require().NoError(err)
	s.True(latest.Version.Equal(newer))
	s.Equal("two", string(latest.Data))

	got, err := s.store.Get(ctx, older)
	s.Require().NoError(err)
	s.Equal("one", string(got.Data))

	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.True(list[1].Version.Equal(older))
	s.Equal(storage.Checksum([]byte("one")), list[1].Checksum)
	s.Equal(3, list[1].Size)
}

func (s *RedisStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), time.Unix(1, 0))
	s.True(ranch.IsKind(err, ranch.ErrNotFound))
}
