package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hashed, err := h.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hashed)
	assert.True(t, h.Check(hashed, "correct-horse"))
	assert.False(t, h.Check(hashed, "wrong-horse"))
}

func TestHasher_ShortPassword(t *testing.T) {
	_, err := NewHasher(bcrypt.MinCost).Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestNewHasher_InvalidCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewHasher(100).cost)
	assert.Equal(t, DefaultCost, NewHasher(0).cost)
}
