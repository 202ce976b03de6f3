package domain

import (
	"context"
	"time"
)

// TodoList 仅当 DeletedAt 为空且 UserID 等于调用者时可见
type TodoList struct {
	ID        string     `gorm:"primaryKey;size:32" json:"id"`
	Title     string     `gorm:"size:400;not null" json:"title"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
	UserID    string     `gorm:"size:32;index;not null" json:"userId"`
	DeletedAt *time.Time `gorm:"index" json:"deletedAt,omitempty"`
}

func (TodoList) TableName() string { return "todo_lists" }

// ListWithNotes is the GET /lists projection.
type ListWithNotes struct {
	TodoList
	Notes []Note `json:"notes"`
}

type TodoListRepository interface {
	Create(ctx context.Context, l *TodoList) error
	// FindActive is the single owner-scoped lookup: id + owner + not deleted.
	FindActive(ctx context.Context, id, userID string) (*TodoList, error)
	ListActive(ctx context.Context, userID string) ([]TodoList, error)
	UpdateTitle(ctx context.Context, id, userID, title string) error
	SoftDeleteCascade(ctx context.Context, id, userID string, at time.Time) (int64, error)
}
