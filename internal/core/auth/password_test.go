package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", hash)

	require.True(t, h.Verify("pw1", hash))
	require.False(t, h.Verify("pw2", hash))
}

func TestPasswordHasher_SaltedOutput(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.True(t, h.Verify("same", a))
	require.True(t, h.Verify("same", b))
}

func TestPasswordHasher_MalformedHashIsMismatch(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	require.False(t, h.Verify("pw", ""))
	require.False(t, h.Verify("pw", "not-a-bcrypt-hash"))
}

func TestPasswordHasher_DefaultCost(t *testing.T) {
	h := NewPasswordHasher(0)

	hash, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, DefaultCost, cost)
}
