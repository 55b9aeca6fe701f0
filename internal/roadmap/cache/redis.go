package cache

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.trai.ch/zerr"

	"github.com/yungbote/neurobridge-roadmap/internal/platform/logger"
)

// RedisStore shares cached roadmaps between service instances. Each entry lives under
// prefix+xxhash(fingerprint); a set at prefix+"index" tracks the fingerprints for Keys and Clear.
type RedisStore struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

type redisEntry struct {
	Fingerprint string          `json:"fingerprint"`
	Payload     json.RawMessage `json:"payload"`
}

// NewRedisStore dials addr and checks the connection before returning.
func NewRedisStore(ctx context.Context, log *logger.Logger, addr string, db int, prefix string) (*RedisStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, zerr.New("redis cache requires an address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, zerr.With(zerr.Wrap(err, "redis ping failed"), "addr", addr)
	}
	return NewRedisStoreWithClient(log, rdb, prefix), nil
}

func NewRedisStoreWithClient(log *logger.Logger, rdb goredis.UniversalClient, prefix string) *RedisStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &RedisStore{
		log:    log.With("service", "RoadmapRedisCache"),
		rdb:    rdb,
		prefix: prefix,
	}
}

func (s *RedisStore) entryKey(fingerprint string) string {
	return s.prefix + strconv.FormatUint(xxhash.Sum64String(fingerprint), 16)
}

func (s *RedisStore) indexKey() string { return s.prefix + "index" }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, s.entryKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, zerr.Wrap(err, "redis get failed")
	}
	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, zerr.Wrap(err, "corrupt cache entry")
	}
	// Digest collisions read as misses.
	if e.Fingerprint != key {
		s.log.Warn("cache digest collision", "fingerprint", key, "stored", e.Fingerprint)
		return nil, false, nil
	}
	return []byte(e.Payload), true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	raw, err := json.Marshal(redisEntry{Fingerprint: key, Payload: value})
	if err != nil {
		return zerr.Wrap(err, "encode cache entry")
	}
	_, err = s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.entryKey(key), raw, 0)
		p.SAdd(ctx, s.indexKey(), key)
		return nil
	})
	if err != nil {
		return zerr.Wrap(err, "redis set failed")
	}
	return nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.rdb.SCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, zerr.Wrap(err, "redis scard failed")
	}
	return int(n), nil
}

// Keys returns the cached fingerprints sorted, since a Redis set has no order.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, zerr.Wrap(err, "redis smembers failed")
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return zerr.Wrap(err, "redis smembers failed")
	}
	del := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		del = append(del, s.entryKey(k))
	}
	del = append(del, s.indexKey())
	if err := s.rdb.Del(ctx, del...).Err(); err != nil {
		return zerr.Wrap(err, "redis del failed")
	}
	s.log.Info("roadmap cache cleared", "entries", len(keys))
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
