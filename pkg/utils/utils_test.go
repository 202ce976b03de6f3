package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hashed)
	assert.True(t, CheckPassword("password123", hashed))
	assert.False(t, CheckPassword("password124", hashed))
	assert.False(t, CheckPassword("password123", "not-a-hash"))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()

	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}
