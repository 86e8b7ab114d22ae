package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

func ConnectRedis(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// JSON guarda valores serializados em JSON sob um prefixo de chave
type JSON struct {
	R      *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewJSON(r *redis.Client, prefix string, ttl time.Duration) *JSON {
	return &JSON{R: r, Prefix: prefix, TTL: ttl}
}

func (c *JSON) key(k string) string { return c.Prefix + k }

// Get devolve false quando a chave não existe
func (c *JSON) Get(ctx context.Context, k string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, c.key(k)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *JSON) Set(ctx context.Context, k string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, c.key(k), b, c.TTL).Err()
}

// Delete remove uma ou mais chaves (sem prefixo)
func (c *JSON) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	return c.R.Del(ctx, full...).Err()
}

// Flush remove todas as chaves sob o prefixo
func (c *JSON) Flush(ctx context.Context) error {
	iter := c.R.Scan(ctx, 0, c.Prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.R.Del(ctx, keys...).Err()
}
