package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		user string
		pass string
		want string
	}{
		{
			name: "native dsn untouched",
			in:   "root:secret@tcp(127.0.0.1:3306)/todo?parseTime=true",
			want: "root:secret@tcp(127.0.0.1:3306)/todo?parseTime=true",
		},
		{
			name: "jdbc url with overrides",
			in:   "jdbc:mysql://db:3306/todo?useSSL=false&characterEncoding=utf8",
			user: "app",
			pass: "pw",
			want: "app:pw@tcp(db:3306)/todo?charset=utf8&parseTime=true&tls=false",
		},
		{
			name: "url credentials and defaults",
			in:   "mysql://u:p@localhost:3306/todo",
			want: "u:p@tcp(localhost:3306)/todo?charset=utf8mb4&parseTime=true",
		},
		{
			name: "empty",
			in:   "  ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}

func TestNewGorm_SQLiteAndMigrate(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "todo_lists", "notes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("users", "idx_users_email"))

	var n int64
	require.NoError(t, db.Table("notes").Count(&n).Error)
	assert.Zero(t, n)
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "app:****@tcp(db:3306)/todo", maskDSN("app:pw@tcp(db:3306)/todo"))
	assert.Equal(t, "app@tcp(db:3306)/todo", maskDSN("app@tcp(db:3306)/todo"))
	assert.Equal(t, "host=db", maskDSN("host=db"))
}

func TestNewGorm_LogsThroughZap(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "info", Log: zap.New(core)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NotZero(t, logs.Len())
	for _, e := range logs.All() {
		assert.Equal(t, "gorm", e.LoggerName)
	}
}
