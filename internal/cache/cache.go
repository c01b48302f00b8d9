package cache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"github.com/viccon/sturdyc"
)

// 进程级缓存指标（所有Service实例共用，避免重复注册）
var (
	metricHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cricketsync_cache_hits_total",
		Help: "Query cache hits.",
	})
	metricMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cricketsync_cache_misses_total",
		Help: "Query cache misses.",
	})
	metricEvictAll = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cricketsync_cache_evict_all_total",
		Help: "Full cache evictions triggered by ingestion commits.",
	})
)

// FetchFn 缓存未命中时回源取数的函数签名
type FetchFn func(ctx context.Context) (any, error)

// Config 缓存初始化参数
type Config struct {
	TTL                time.Duration
	Capacity           int
	NumShards          int
	EvictionPercentage int
}

// Stats 命中/未命中/全量失效计数，供测试与排障观察
type Stats struct {
	Hits      uint64
	Misses    uint64
	EvictAlls uint64
}

// Service (操作种类,参数)级别的查询结果记忆层。
// 底层sturdyc只提供按键删除，没有全量清空，所以把一个代际计数折进每个键：
// EvictAll只需递增代际，旧代际条目不再可达，由TTL自然过期回收
type Service struct {
	client *sturdyc.Client[any]
	logger *logrus.Logger

	gen       atomic.Uint64
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictAlls atomic.Uint64
}

// New 创建缓存服务
func New(cfg Config, logger *logrus.Logger) *Service {
	return &Service{
		client: sturdyc.New[any](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		logger: logger,
	}
}

// Key 由操作种类与参数拼出稳定的缓存键
func Key(kind string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, kind)
	for _, a := range args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	return strings.Join(parts, ":")
}

// GetOrFetch 读穿缓存：命中直接返回，未命中执行fetch并写入。
// 并发的相同未命中允许重复回源，不允许写坏数据（由sturdyc分片保证）
func (s *Service) GetOrFetch(ctx context.Context, key string, fetch FetchFn) (any, error) {
	missed := false
	v, err := s.client.GetOrFetch(ctx, s.versionedKey(key), func(ctx context.Context) (any, error) {
		missed = true
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	if missed {
		s.misses.Add(1)
		metricMisses.Inc()
	} else {
		s.hits.Add(1)
		metricHits.Inc()
	}
	return v, nil
}

// EvictAll 全量失效。写路径每次成功提交后无条件调用：
// 宁可多算一次，也不返回写后过期的结果
func (s *Service) EvictAll() {
	s.gen.Add(1)
	s.evictAlls.Add(1)
	metricEvictAll.Inc()
	if s.logger != nil {
		s.logger.Debug("查询缓存已全量失效")
	}
}

// EvictKey 单键失效（次级原语，写路径不依赖它）
func (s *Service) EvictKey(key string) {
	s.client.Delete(s.versionedKey(key))
}

// Stats 返回当前计数快照
func (s *Service) Stats() Stats {
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		EvictAlls: s.evictAlls.Load(),
	}
}

func (s *Service) versionedKey(key string) string {
	return fmt.Sprintf("g%d:%s", s.gen.Load(), key)
}

// GetOrFetch 带类型的读穿封装，省去调用方的断言
func GetOrFetch[T any](ctx context.Context, s *Service, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := s.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
