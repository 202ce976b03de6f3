package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"todo-api/internal/domain"
)

// ownedActive 列表可见性的唯一谓词：属于 userID 且未软删
func ownedActive(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND deleted_at IS NULL", userID)
	}
}

type TodoListRepo struct{ db *gorm.DB }

func NewTodoListRepo(db *gorm.DB) *TodoListRepo { return &TodoListRepo{db: db} }

func (r *TodoListRepo) Create(ctx context.Context, l *domain.TodoList) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *TodoListRepo) FindActive(ctx context.Context, id, userID string) (*domain.TodoList, error) {
	var l domain.TodoList
	err := r.db.WithContext(ctx).Scopes(ownedActive(userID)).First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *TodoListRepo) ListActive(ctx context.Context, userID string) ([]domain.TodoList, error) {
	lists := make([]domain.TodoList, 0)
	err := r.db.WithContext(ctx).
		Scopes(ownedActive(userID)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&lists).Error
	return lists, err
}

func (r *TodoListRepo) UpdateTitle(ctx context.Context, id, userID, title string) error {
	return r.db.WithContext(ctx).
		Model(&domain.TodoList{}).
		Scopes(ownedActive(userID)).
		Where("id = ?", id).
		Update("title", title).Error
}

// SoftDeleteCascade 同一事务内软删列表及其全部未删除的 note；返回受影响的列表行数
func (r *TodoListRepo) SoftDeleteCascade(ctx context.Context, id, userID string, at time.Time) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.TodoList{}).
			Scopes(ownedActive(userID)).
			Where("id = ?", id).
			Update("deleted_at", at)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Model(&domain.Note{}).
			Where("list_id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", at).Error
	})
	return affected, err
}
