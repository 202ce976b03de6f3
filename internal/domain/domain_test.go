package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ListTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantMsg string
	}{
		{"valid", "Groceries", ""},
		{"valid unicode and punctuation", "Alışveriş listesi, hafta #1!", ""},
		{"exactly 100 runes", strings.Repeat("ç", 100), ""},
		{"empty", "", "Title is required"},
		{"blank", "   ", "Title is required"},
		{"too long", strings.Repeat("a", 101), "Title must be between 1 and 100 characters"},
		{"symbol not allowed", "a + b", "Title contains invalid characters"},
		{"newline not allowed in title", "line\nbreak", "Title contains invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ListTitle{Title: tt.title})
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var de *Error
			require.True(t, errors.As(err, &de))
			require.Len(t, de.Fields, 1)
			assert.Equal(t, "title", de.Fields[0].Field)
			assert.Equal(t, tt.wantMsg, de.Fields[0].Message)
		})
	}
}

func TestValidate_NoteContent(t *testing.T) {
	assert.NoError(t, Validate(NoteContent{Content: "Milk\n- 2 bottles\tfresh"}))
	assert.NoError(t, Validate(NoteContent{Content: strings.Repeat("x", 1000)}))

	err := Validate(NoteContent{Content: strings.Repeat("x", 1001)})
	assert.True(t, errors.Is(err, ErrValidation))

	err = Validate(NoteContent{Content: "price < 10"})
	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "Content contains invalid characters", de.Fields[0].Message)
}

func TestValidate_Registration(t *testing.T) {
	err := Validate(Registration{Email: "not-an-email", Password: "123", FullName: " "})

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, KindValidation, de.Kind)
	fields := map[string]string{}
	for _, f := range de.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "Email must be a valid email address", fields["email"])
	assert.Equal(t, "Password must be between 6 and 72 characters", fields["password"])
	assert.Equal(t, "Full name is required", fields["fullName"])

	assert.NoError(t, Validate(Registration{Email: "a@x.com", Password: "password123", FullName: "Test User"}))
}

func TestError_IsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("update note: %w", NotFound("Note", "id", "n1"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "update note: Note not found with id : 'n1'", err.Error())
}

func TestKindOf_UnknownIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))

	cause := errors.New("sql: connection refused")
	err := Internal("list lists failed", cause)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.True(t, errors.Is(err, cause))
}
