package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"todo-api/internal/domain"
)

// 截止日期升序，无截止日期排最后，其次按创建时间
const noteOrder = "CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, created_at ASC, id ASC"

type NoteRepo struct{ db *gorm.DB }

func NewNoteRepo(db *gorm.DB) *NoteRepo { return &NoteRepo{db: db} }

func (r *NoteRepo) Create(ctx context.Context, n *domain.Note) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NoteRepo) FindActive(ctx context.Context, id string) (*domain.Note, error) {
	var n domain.Note
	err := r.db.WithContext(ctx).First(&n, "id = ? AND deleted_at IS NULL", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepo) ListActiveByList(ctx context.Context, listID string) ([]domain.Note, error) {
	notes := make([]domain.Note, 0)
	err := r.db.WithContext(ctx).
		Where("list_id = ? AND deleted_at IS NULL", listID).
		Order(noteOrder).
		Find(&notes).Error
	return notes, err
}

// ListActiveByLists 一次查询取多个列表的 note，避免 N+1
func (r *NoteRepo) ListActiveByLists(ctx context.Context, listIDs []string) ([]domain.Note, error) {
	notes := make([]domain.Note, 0)
	if len(listIDs) == 0 {
		return notes, nil
	}
	err := r.db.WithContext(ctx).
		Where("list_id IN ? AND deleted_at IS NULL", listIDs).
		Order(noteOrder).
		Find(&notes).Error
	return notes, err
}

func (r *NoteRepo) Update(ctx context.Context, n *domain.Note, expectListID string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Note{}).
		Where("id = ? AND list_id = ? AND deleted_at IS NULL", n.ID, expectListID).
		Updates(map[string]any{
			"content":  n.Content,
			"done":     n.Done,
			"due_date": n.DueDate,
			"list_id":  n.ListID,
		}).Error
}

func (r *NoteRepo) SoftDelete(ctx context.Context, id, listID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Note{}).
		Where("id = ? AND list_id = ? AND deleted_at IS NULL", id, listID).
		Update("deleted_at", at)
	return res.RowsAffected, res.Error
}
