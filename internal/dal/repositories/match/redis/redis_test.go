package redis

import (
	"context"
	"testing"
	"time"

	dalredis "github.com/corray333/atlas-cafe/internal/dal/redis"
	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func TestUnreachableRedisReportsErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	r := NewMatchRepository(dalredis.NewClientFrom(rdb), time.Minute)

	require.Error(t, r.Save(context.Background(), []match.Match{{ID: "m1"}}))

	_, ok, err := r.Latest(context.Background())
	require.Error(t, err)
	require.False(t, ok)
}
