package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 值以 JSON 存储
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var out T
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if e := json.Unmarshal(b, &out); e != nil {
		// 缓存内容损坏时回源
		c.log.Warn("cache decode failed, reloading")
		return load(ctx)
	}
	return out, nil
}
