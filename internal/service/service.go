package service

import (
	"context"
	"time"

	"todo-api/internal/domain"
)

// ListCache 每个用户 GET /lists 结果的读穿缓存；任何写操作后必须 Invalidate
type ListCache interface {
	Lists(ctx context.Context, userID string, load func(context.Context) ([]domain.ListWithNotes, error)) ([]domain.ListWithNotes, error)
	Invalidate(ctx context.Context, userID string)
}

func systemNow() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
