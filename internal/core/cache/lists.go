package cache

import (
	"context"
	"time"

	"todo-api/internal/domain"
)

const listsKeyPrefix = "lists:"

// Lists 按用户缓存 GET /lists 的完整结果
type Lists struct {
	c   *Cache
	ttl time.Duration
}

func NewLists(c *Cache, ttl time.Duration) *Lists {
	return &Lists{c: c, ttl: ttl}
}

func listsKey(userID string) string { return listsKeyPrefix + userID }

func (l *Lists) Lists(ctx context.Context, userID string, load func(context.Context) ([]domain.ListWithNotes, error)) ([]domain.ListWithNotes, error) {
	return GetOrLoadJSON(l.c, ctx, listsKey(userID), l.ttl, load)
}

func (l *Lists) Invalidate(ctx context.Context, userID string) {
	l.c.Del(ctx, listsKey(userID))
}
