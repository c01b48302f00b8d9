package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return New(Config{
		TTL:                time.Minute,
		Capacity:           100,
		NumShards:          2,
		EvictionPercentage: 10,
	}, nil)
}

func TestGetOrFetchMemoizes(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return "value", nil
	}

	v1, err := s.GetOrFetch(ctx, Key("matchesByPlayerName", "X"), fetch)
	require.NoError(t, err)
	v2, err := s.GetOrFetch(ctx, Key("matchesByPlayerName", "X"), fetch)
	require.NoError(t, err)

	assert.Equal(t, "value", v1)
	assert.Equal(t, "value", v2)
	assert.Equal(t, 1, calls, "第二次调用应命中缓存")

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestEvictAllForcesRecompute(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, err := s.GetOrFetch(ctx, "k", fetch)
	require.NoError(t, err)

	s.EvictAll()

	v, err := s.GetOrFetch(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "全量失效后必须重新计算")
	assert.Equal(t, uint64(1), s.Stats().EvictAlls)
}

func TestEvictKeyOnlyDropsThatKey(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	callsA, callsB := 0, 0
	fetchA := func(ctx context.Context) (any, error) { callsA++; return "a", nil }
	fetchB := func(ctx context.Context) (any, error) { callsB++; return "b", nil }

	_, err := s.GetOrFetch(ctx, "a", fetchA)
	require.NoError(t, err)
	_, err = s.GetOrFetch(ctx, "b", fetchB)
	require.NoError(t, err)

	s.EvictKey("a")

	_, err = s.GetOrFetch(ctx, "a", fetchA)
	require.NoError(t, err)
	_, err = s.GetOrFetch(ctx, "b", fetchB)
	require.NoError(t, err)

	assert.Equal(t, 2, callsA)
	assert.Equal(t, 1, callsB)
}

func TestTypedGetOrFetch(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	got, err := GetOrFetch(ctx, s, "scores", func(ctx context.Context) ([]int, error) {
		return []int{50, 30}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{50, 30}, got)

	// 第二次返回同一缓存值
	again, err := GetOrFetch(ctx, s, "scores", func(ctx context.Context) ([]int, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{50, 30}, again)
}

func TestKeyBuilder(t *testing.T) {
	assert.Equal(t, "topBatsmen:0:10", Key("topBatsmen", 0, 10))
	assert.Equal(t, "matchesByDate:2024-09-17", Key("matchesByDate", "2024-09-17"))
}
