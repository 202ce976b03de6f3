package service

import (
	"context"
	"time"

	"todo-api/internal/domain"
	"todo-api/pkg/utils"
)

type TodoListService struct {
	lists domain.TodoListRepository
	notes domain.NoteRepository
	cache ListCache
	now   func() time.Time
}

// NewTodoListService c 可为 nil（不缓存）
func NewTodoListService(lists domain.TodoListRepository, notes domain.NoteRepository, c ListCache) *TodoListService {
	return &TodoListService{lists: lists, notes: notes, cache: c, now: systemNow}
}

func (s *TodoListService) Create(ctx context.Context, userID, title string) (*domain.TodoList, error) {
	if err := domain.Validate(domain.ListTitle{Title: title}); err != nil {
		return nil, err
	}
	l := &domain.TodoList{
		ID:        utils.NewID(),
		Title:     title,
		CreatedAt: s.now(),
		UserID:    userID,
	}
	if err := s.lists.Create(ctx, l); err != nil {
		return nil, domain.Internal("create list failed", err)
	}
	s.invalidate(ctx, userID)
	return l, nil
}

// List 返回用户全部有效列表（新建在前），每个列表附带其有效 note
func (s *TodoListService) List(ctx context.Context, userID string) ([]domain.ListWithNotes, error) {
	if s.cache == nil {
		return s.load(ctx, userID)
	}
	return s.cache.Lists(ctx, userID, func(ctx context.Context) ([]domain.ListWithNotes, error) {
		return s.load(ctx, userID)
	})
}

func (s *TodoListService) load(ctx context.Context, userID string) ([]domain.ListWithNotes, error) {
	lists, err := s.lists.ListActive(ctx, userID)
	if err != nil {
		return nil, domain.Internal("list lists failed", err)
	}
	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	notes, err := s.notes.ListActiveByLists(ctx, ids)
	if err != nil {
		return nil, domain.Internal("list notes failed", err)
	}

	byList := make(map[string][]domain.Note, len(lists))
	for _, n := range notes {
		byList[n.ListID] = append(byList[n.ListID], n)
	}
	out := make([]domain.ListWithNotes, len(lists))
	for i, l := range lists {
		ns := byList[l.ID]
		if ns == nil {
			ns = []domain.Note{}
		}
		out[i] = domain.ListWithNotes{TodoList: l, Notes: ns}
	}
	return out, nil
}

func (s *TodoListService) UpdateTitle(ctx context.Context, userID, id, title string) (*domain.TodoList, error) {
	if err := domain.Validate(domain.ListTitle{Title: title}); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.lists.UpdateTitle(ctx, id, userID, title); err != nil {
		return nil, domain.Internal("update list failed", err)
	}
	s.invalidate(ctx, userID)
	// 更新语句带归属条件；回读确认列表仍然有效
	return s.owned(ctx, userID, id)
}

// Delete 软删列表并级联软删其 note
func (s *TodoListService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	n, err := s.lists.SoftDeleteCascade(ctx, id, userID, s.now())
	if err != nil {
		return domain.Internal("delete list failed", err)
	}
	s.invalidate(ctx, userID)
	if n == 0 {
		return domain.NotFound("TodoList", "id", id)
	}
	return nil
}

func (s *TodoListService) owned(ctx context.Context, userID, id string) (*domain.TodoList, error) {
	l, err := s.lists.FindActive(ctx, id, userID)
	if err != nil {
		return nil, domain.Internal("lookup list failed", err)
	}
	if l == nil {
		return nil, domain.NotFound("TodoList", "id", id)
	}
	return l, nil
}

func (s *TodoListService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
