package domain

import (
	"context"
	"time"
)

type Note struct {
	ID        string     `gorm:"primaryKey;size:32" json:"id"`
	Content   string     `gorm:"size:4000;not null" json:"content"`
	Done      bool       `gorm:"not null;default:false" json:"done"`
	CreatedAt time.Time  `json:"createdAt"`
	DueDate   *time.Time `json:"dueDate"`
	ListID    string     `gorm:"size:32;index;not null" json:"listId"`
	DeletedAt *time.Time `gorm:"index" json:"deletedAt,omitempty"`
}

func (Note) TableName() string { return "notes" }

// NotePatch nil 字段保持原值
type NotePatch struct {
	Content      *string
	Done         *bool
	DueDate      *time.Time
	TargetListID *string
}

type NoteRepository interface {
	Create(ctx context.Context, n *Note) error
	// FindActive returns a non-deleted note by id; ownership is checked through its list.
	FindActive(ctx context.Context, id string) (*Note, error)
	ListActiveByList(ctx context.Context, listID string) ([]Note, error)
	ListActiveByLists(ctx context.Context, listIDs []string) ([]Note, error)
	// Update writes the mutable columns only while the note is still active in expectListID.
	Update(ctx context.Context, n *Note, expectListID string) error
	SoftDelete(ctx context.Context, id, listID string, at time.Time) (int64, error)
}
