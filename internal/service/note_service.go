package service

import (
	"context"
	"time"

	"todo-api/internal/domain"
	"todo-api/pkg/utils"
)

// NoteService note 的归属通过其所在列表传递判断
type NoteService struct {
	lists domain.TodoListRepository
	notes domain.NoteRepository
	cache ListCache
	now   func() time.Time
}

func NewNoteService(lists domain.TodoListRepository, notes domain.NoteRepository, c ListCache) *NoteService {
	return &NoteService{lists: lists, notes: notes, cache: c, now: systemNow}
}

func (s *NoteService) Create(ctx context.Context, userID, listID, content string, dueDate *time.Time) (*domain.Note, error) {
	if err := domain.Validate(domain.NoteContent{Content: content}); err != nil {
		return nil, err
	}
	if err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	n := &domain.Note{
		ID:        utils.NewID(),
		Content:   content,
		CreatedAt: s.now(),
		DueDate:   utcPtr(dueDate),
		ListID:    listID,
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, domain.Internal("create note failed", err)
	}
	s.invalidate(ctx, userID)
	return n, nil
}

func (s *NoteService) ListByList(ctx context.Context, userID, listID string) ([]domain.Note, error) {
	if err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListActiveByList(ctx, listID)
	if err != nil {
		return nil, domain.Internal("list notes failed", err)
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, userID, id string) (*domain.Note, error) {
	return s.ownedNote(ctx, userID, id)
}

// Update 只改传入的字段；TargetListID 用于把 note 移到同一用户的另一个列表
func (s *NoteService) Update(ctx context.Context, userID, id string, p domain.NotePatch) (*domain.Note, error) {
	if p.Content != nil {
		if err := domain.Validate(domain.NoteContent{Content: *p.Content}); err != nil {
			return nil, err
		}
	}
	n, err := s.ownedNote(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	from := n.ListID

	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Done != nil {
		n.Done = *p.Done
	}
	if p.DueDate != nil {
		n.DueDate = utcPtr(p.DueDate)
	}
	if p.TargetListID != nil && *p.TargetListID != from {
		if err := s.ownedList(ctx, userID, *p.TargetListID); err != nil {
			return nil, err
		}
		n.ListID = *p.TargetListID
	}

	if err := s.notes.Update(ctx, n, from); err != nil {
		return nil, domain.Internal("update note failed", err)
	}
	s.invalidate(ctx, userID)
	return s.ownedNote(ctx, userID, id)
}

func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	n, err := s.ownedNote(ctx, userID, id)
	if err != nil {
		return err
	}
	affected, err := s.notes.SoftDelete(ctx, id, n.ListID, s.now())
	if err != nil {
		return domain.Internal("delete note failed", err)
	}
	s.invalidate(ctx, userID)
	if affected == 0 {
		return domain.NotFound("Note", "id", id)
	}
	return nil
}

func (s *NoteService) ownedList(ctx context.Context, userID, listID string) error {
	l, err := s.lists.FindActive(ctx, listID, userID)
	if err != nil {
		return domain.Internal("lookup list failed", err)
	}
	if l == nil {
		return domain.NotFound("TodoList", "id", listID)
	}
	return nil
}

// ownedNote note 不存在、已删除、或其列表不属于 userID 时都返回同一个 NotFound
func (s *NoteService) ownedNote(ctx context.Context, userID, id string) (*domain.Note, error) {
	n, err := s.notes.FindActive(ctx, id)
	if err != nil {
		return nil, domain.Internal("lookup note failed", err)
	}
	if n == nil {
		return nil, domain.NotFound("Note", "id", id)
	}
	l, err := s.lists.FindActive(ctx, n.ListID, userID)
	if err != nil {
		return nil, domain.Internal("lookup list failed", err)
	}
	if l == nil {
		return nil, domain.NotFound("Note", "id", id)
	}
	return n, nil
}

func (s *NoteService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
