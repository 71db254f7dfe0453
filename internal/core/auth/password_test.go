package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gin-gorm-product-api/internal/domain"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestHasher_RoundTrip(t *testing.T) {
	h := newTestHasher(t)
	for _, pw := range []string{"Secret123", "p", "пароль-密码", strings.Repeat("x", 72)} {
		hashed, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hashed)
		assert.True(t, h.Verify(pw, hashed), pw)
	}
}

func TestHasher_FreshSalt(t *testing.T) {
	h := newTestHasher(t)
	a, err := h.Hash("Secret123")
	require.NoError(t, err)
	b, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_WrongPassword(t *testing.T) {
	h := newTestHasher(t)
	hashed, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.False(t, h.Verify("wrong", hashed))
	assert.False(t, h.Verify("", hashed))
}

func TestHasher_MalformedHashIsFalse(t *testing.T) {
	h := newTestHasher(t)
	assert.False(t, h.Verify("Secret123", ""))
	assert.False(t, h.Verify("Secret123", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("Secret123", "$2a$04$short"))
}

func TestHasher_CostMismatchIsFalse(t *testing.T) {
	h := newTestHasher(t)
	other, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost+1)
	require.NoError(t, err)
	assert.False(t, h.Verify("Secret123", string(other)))
}

func TestHasher_DefaultCost(t *testing.T) {
	h, err := NewHasher(0)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, h.Cost())
}

func TestHasher_InvalidCost(t *testing.T) {
	_, err := NewHasher(bcrypt.MaxCost + 1)
	require.Error(t, err)
}

func TestHasher_TooLongIsHashingError(t *testing.T) {
	h := newTestHasher(t)
	_, err := h.Hash(strings.Repeat("x", 73))
	require.ErrorIs(t, err, domain.ErrHashing)
}
