package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todo-api/internal/core/auth"
	"todo-api/internal/core/database"
	"todo-api/internal/domain"
	"todo-api/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// stepClock 每次调用前进一秒，保证 created_at 严格递增
func stepClock() func() time.Time {
	var mu sync.Mutex
	cur := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

// countingCache 直通 load，只记录失效次数
type countingCache struct {
	mu          sync.Mutex
	invalidated map[string]int
}

func (c *countingCache) Lists(ctx context.Context, _ string, load func(context.Context) ([]domain.ListWithNotes, error)) ([]domain.ListWithNotes, error) {
	return load(ctx)
}

func (c *countingCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.invalidated == nil {
		c.invalidated = map[string]int{}
	}
	c.invalidated[userID]++
}

func (c *countingCache) count(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated[userID]
}

type fixture struct {
	auth  *AuthService
	lists *TodoListService
	notes *NoteService
	cache *countingCache
	db    *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	users, lists, notes := repo.NewUserRepo(db), repo.NewTodoListRepo(db), repo.NewNoteRepo(db)
	c := &countingCache{}
	clock := stepClock()

	f := &fixture{
		auth:  NewAuthService(users, &auth.JWTer{Secret: []byte("test-secret"), Issuer: "todo-api", TTL: time.Hour}),
		lists: NewTodoListService(lists, notes, c),
		notes: NewNoteService(lists, notes, c),
		cache: c,
		db:    db,
	}
	f.auth.now, f.lists.now, f.notes.now = clock, clock, clock
	return f
}

func ptr[T any](v T) *T { return &v }

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.auth.Register(ctx, " A@X.com ", "secret1", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "a@x.com", res.User.Email)

	uid, err := f.auth.Resolve(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, uid)

	in, err := f.auth.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, in.User.ID)

	_, err = f.auth.Login(ctx, "a@x.com", "wrong-pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password", err.Error())

	me, err := f.auth.Me(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.FullName)

	_, err = f.auth.Me(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegister_EmailIsExclusive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Register(ctx, "a@x.com", "secret1", "Alice")
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, "A@x.com", "secret2", "Other")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	var n int64
	require.NoError(t, f.db.Model(&domain.User{}).Where("email = ?", "a@x.com").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), "not-an-email", "123", "")
	require.ErrorIs(t, err, domain.ErrValidation)

	var e *domain.Error
	require.ErrorAs(t, err, &e)
	fields := map[string]bool{}
	for _, fe := range e.Fields {
		fields[fe.Field] = true
	}
	assert.Equal(t, map[string]bool{"email": true, "password": true, "fullName": true}, fields)
}

func TestResolve_RejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	res, err := f.auth.Register(context.Background(), "a@x.com", "secret1", "Alice")
	require.NoError(t, err)

	_, err = f.auth.Resolve(res.Token + "x")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	expired := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "todo-api", TTL: -time.Minute}
	tok, err := expired.Issue(res.User.ID, res.User.Email)
	require.NoError(t, err)
	_, err = f.auth.Resolve(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCreateListThenList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.lists.Create(ctx, "u1", "Groceries")
	require.NoError(t, err)
	assert.Nil(t, first.DeletedAt)
	second, err := f.lists.Create(ctx, "u1", "Работа, 2024!")
	require.NoError(t, err)
	_, err = f.lists.Create(ctx, "u2", "Not mine")
	require.NoError(t, err)

	got, err := f.lists.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID, "newest first")
	assert.Equal(t, "Groceries", got[1].Title)
	assert.Nil(t, got[1].DeletedAt)
	assert.NotNil(t, got[1].Notes)
	assert.Empty(t, got[1].Notes)

	assert.Equal(t, 2, f.cache.count("u1"))
}

func TestCreateList_Validation(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"", "   ", "emoji 😀", string(make([]rune, 101))} {
		_, err := f.lists.Create(context.Background(), "u1", title)
		assert.ErrorIs(t, err, domain.ErrValidation, "%q", title)
	}
}

func TestList_GroupsNotesPerList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.lists.Create(ctx, "u1", "A")
	require.NoError(t, err)
	b, err := f.lists.Create(ctx, "u1", "B")
	require.NoError(t, err)

	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.notes.Create(ctx, "u1", a.ID, "no due", nil)
	require.NoError(t, err)
	_, err = f.notes.Create(ctx, "u1", a.ID, "due", &day)
	require.NoError(t, err)
	_, err = f.notes.Create(ctx, "u1", b.ID, "other", nil)
	require.NoError(t, err)

	got, err := f.lists.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	require.Len(t, got[0].Notes, 1)
	require.Len(t, got[1].Notes, 2)
	assert.Equal(t, "due", got[1].Notes[0].Content)
	assert.Equal(t, "no due", got[1].Notes[1].Content)
}

func TestForeignOrMissingList_IsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	mine, err := f.lists.Create(ctx, "u1", "Mine")
	require.NoError(t, err)
	gone, err := f.lists.Create(ctx, "u1", "Gone")
	require.NoError(t, err)
	require.NoError(t, f.lists.Delete(ctx, "u1", gone.ID))

	cases := []struct{ name, user, id string }{
		{"absent", "u1", "does-not-exist"},
		{"soft-deleted", "u1", gone.ID},
		{"other owner", "u2", mine.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.lists.UpdateTitle(ctx, tc.user, tc.id, "New")
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.Equal(t, "TodoList not found with id : '"+tc.id+"'", err.Error())

			assert.ErrorIs(t, f.lists.Delete(ctx, tc.user, tc.id), domain.ErrNotFound)

			_, err = f.notes.Create(ctx, tc.user, tc.id, "x", nil)
			assert.ErrorIs(t, err, domain.ErrNotFound)

			_, err = f.notes.ListByList(ctx, tc.user, tc.id)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}

	// 他人列表未被改动
	got, err := f.lists.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mine", got[0].Title)
}

func TestForeignNote_IsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l, err := f.lists.Create(ctx, "u1", "Mine")
	require.NoError(t, err)
	n, err := f.notes.Create(ctx, "u1", l.ID, "secret", nil)
	require.NoError(t, err)
	other, err := f.lists.Create(ctx, "u2", "Theirs")
	require.NoError(t, err)

	_, err = f.notes.Get(ctx, "u2", n.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Note not found with id : '"+n.ID+"'", err.Error())

	_, err = f.notes.Update(ctx, "u2", n.ID, domain.NotePatch{Done: ptr(true)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.notes.Delete(ctx, "u2", n.ID), domain.ErrNotFound)

	// 不能把自己的 note 移到别人的列表
	_, err = f.notes.Update(ctx, "u1", n.ID, domain.NotePatch{TargetListID: &other.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.notes.Get(ctx, "u1", n.ID)
	require.NoError(t, err)
	assert.False(t, got.Done)
	assert.Equal(t, l.ID, got.ListID)
}

func TestDeleteList_CascadesToNotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l, err := f.lists.Create(ctx, "u1", "Groceries")
	require.NoError(t, err)
	n1, err := f.notes.Create(ctx, "u1", l.ID, "Milk", nil)
	require.NoError(t, err)
	n2, err := f.notes.Create(ctx, "u1", l.ID, "Eggs", nil)
	require.NoError(t, err)

	require.NoError(t, f.lists.Delete(ctx, "u1", l.ID))

	got, err := f.lists.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.notes.ListByList(ctx, "u1", l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, id := range []string{n1.ID, n2.ID} {
		_, err = f.notes.Get(ctx, "u1", id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	// 行仍在，只是带删除时间
	var rows []domain.Note
	require.NoError(t, f.db.Where("list_id = ?", l.ID).Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotNil(t, r.DeletedAt)
	}

	// 再删一次
	assert.ErrorIs(t, f.lists.Delete(ctx, "u1", l.ID), domain.ErrNotFound)
}

func TestNotes_OrderedByDueDateNullsLast(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l, err := f.lists.Create(ctx, "u1", "L")
	require.NoError(t, err)
	d1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	d2 := d1.Add(24 * time.Hour)

	_, err = f.notes.Create(ctx, "u1", l.ID, "none", nil)
	require.NoError(t, err)
	_, err = f.notes.Create(ctx, "u1", l.ID, "D2", &d2)
	require.NoError(t, err)
	_, err = f.notes.Create(ctx, "u1", l.ID, "D1", &d1)
	require.NoError(t, err)

	got, err := f.notes.ListByList(ctx, "u1", l.ID)
	require.NoError(t, err)
	var contents []string
	for _, n := range got {
		contents = append(contents, n.Content)
	}
	assert.Equal(t, []string{"D1", "D2", "none"}, contents)
}

func TestUpdateNote_IsPartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l, err := f.lists.Create(ctx, "u1", "L")
	require.NoError(t, err)
	due := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	n, err := f.notes.Create(ctx, "u1", l.ID, "Milk", &due)
	require.NoError(t, err)

	got, err := f.notes.Update(ctx, "u1", n.ID, domain.NotePatch{Done: ptr(true)})
	require.NoError(t, err)
	assert.True(t, got.Done)
	assert.Equal(t, "Milk", got.Content)
	assert.Equal(t, l.ID, got.ListID)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	got, err = f.notes.Update(ctx, "u1", n.ID, domain.NotePatch{Content: ptr("Oat milk")})
	require.NoError(t, err)
	assert.True(t, got.Done)
	assert.Equal(t, "Oat milk", got.Content)

	_, err = f.notes.Update(ctx, "u1", n.ID, domain.NotePatch{Content: ptr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateNote_MovesBetweenOwnLists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	from, err := f.lists.Create(ctx, "u1", "From")
	require.NoError(t, err)
	to, err := f.lists.Create(ctx, "u1", "To")
	require.NoError(t, err)
	n, err := f.notes.Create(ctx, "u1", from.ID, "Move me", nil)
	require.NoError(t, err)

	got, err := f.notes.Update(ctx, "u1", n.ID, domain.NotePatch{TargetListID: &to.ID})
	require.NoError(t, err)
	assert.Equal(t, to.ID, got.ListID)

	left, err := f.notes.ListByList(ctx, "u1", from.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	moved, err := f.notes.ListByList(ctx, "u1", to.ID)
	require.NoError(t, err)
	require.Len(t, moved, 1)
}

func TestDeleteNote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l, err := f.lists.Create(ctx, "u1", "L")
	require.NoError(t, err)
	n, err := f.notes.Create(ctx, "u1", l.ID, "Bye", nil)
	require.NoError(t, err)
	before := f.cache.count("u1")

	require.NoError(t, f.notes.Delete(ctx, "u1", n.ID))
	assert.Equal(t, before+1, f.cache.count("u1"))

	_, err = f.notes.Get(ctx, "u1", n.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.notes.Delete(ctx, "u1", n.ID), domain.ErrNotFound)
}

func TestRenameList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l, err := f.lists.Create(ctx, "u1", "Old")
	require.NoError(t, err)
	got, err := f.lists.UpdateTitle(ctx, "u1", l.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.True(t, got.CreatedAt.Equal(l.CreatedAt))

	// 标题不变也应成功
	_, err = f.lists.UpdateTitle(ctx, "u1", l.ID, "New")
	require.NoError(t, err)

	_, err = f.lists.UpdateTitle(ctx, "u1", l.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
