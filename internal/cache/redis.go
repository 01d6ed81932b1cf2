package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"syfw-todo/internal/models"
	"syfw-todo/pkg/logger"
)

// Cache keeps serialized list pages and single records in Redis.
// A nil *Cache is a disabled cache: reads miss and writes are dropped.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the Redis instance at url and pings it.
func New(ctx context.Context, url string, poolSize int, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", opts.PoolSize)
	return NewWithClient(client, ttl), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func listKey(e models.Entity, limit, offset int) string {
	return fmt.Sprintf("%s:list:%d:%d", e, limit, offset)
}

func recordKey(e models.Entity, id int64) string {
	return string(e) + ":" + strconv.FormatInt(id, 10)
}

func genKey(e models.Entity) string {
	return string(e) + ":gen"
}

// setIfCurrent stores ARGV[2] under KEYS[2] only while the entity generation
// in KEYS[1] still equals ARGV[1]. ARGV[3] is the TTL in milliseconds.
var setIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[1])
if not gen then gen = '0' end
if gen ~= ARGV[1] then return 0 end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get failed", "error", err, "key", key)
		return nil, false
	}
	return b, true
}

func (c *Cache) set(ctx context.Context, e models.Entity, gen int64, key string, b []byte) {
	if c == nil || gen < 0 {
		return
	}
	stored, err := setIfCurrent.Run(ctx, c.client, []string{genKey(e), key}, gen, b, c.ttl.Milliseconds()).Int()
	if err != nil {
		logger.Debug(ctx, "Redis set failed", "error", err, "key", key)
		return
	}
	if stored == 0 {
		logger.Debug(ctx, "Cache fill skipped; entity changed during load", "key", key, "generation", gen)
	}
}

// Generation returns the entity's invalidation counter. Read it before loading
// from the database and pass it to SetList or SetRecord; the fill is dropped
// if Invalidate ran in between. -1 means Redis could not be read.
func (c *Cache) Generation(ctx context.Context, e models.Entity) int64 {
	if c == nil {
		return 0
	}
	n, err := c.client.Get(ctx, genKey(e)).Int64()
	if err == redis.Nil {
		return 0
	}
	if err != nil {
		logger.Debug(ctx, "Redis generation read failed", "error", err, "entity", e)
		return -1
	}
	return n
}

// GetList returns a cached JSON page of entity records.
func (c *Cache) GetList(ctx context.Context, e models.Entity, limit, offset int) ([]byte, bool) {
	return c.get(ctx, listKey(e, limit, offset))
}

func (c *Cache) SetList(ctx context.Context, e models.Entity, gen int64, limit, offset int, b []byte) {
	c.set(ctx, e, gen, listKey(e, limit, offset), b)
}

// GetRecord returns a cached JSON record.
func (c *Cache) GetRecord(ctx context.Context, e models.Entity, id int64) ([]byte, bool) {
	return c.get(ctx, recordKey(e, id))
}

func (c *Cache) SetRecord(ctx context.Context, e models.Entity, gen int64, id int64, b []byte) {
	c.set(ctx, e, gen, recordKey(e, id), b)
}

// Invalidate bumps the entity generation and drops every cached page of the
// entity and the given records, so the next read goes to the database.
func (c *Cache) Invalidate(ctx context.Context, e models.Entity, ids ...int64) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, genKey(e)).Err(); err != nil {
		logger.Debug(ctx, "Redis generation bump failed", "error", err, "entity", e)
	}
	var keys []string
	iter := c.client.Scan(ctx, 0, string(e)+":list:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Debug(ctx, "Redis scan failed", "error", err, "entity", e)
	}
	for _, id := range ids {
		keys = append(keys, recordKey(e, id))
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate failed", "error", err, "entity", e)
	}
}

// Ping reports whether Redis is reachable. A disabled cache is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
