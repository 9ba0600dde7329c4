package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	Cost = bcrypt.MinCost
	m.Run()
}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hash)

	require.True(t, VerifyPassword(hash, "correct horse"))
	require.False(t, VerifyPassword(hash, "battery staple"))
	require.False(t, VerifyPassword("not-a-hash", "correct horse"))

	again, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, hash, again, "salted hashes differ")
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73))
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestIsHashed(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	require.True(t, IsHashed(hash))
	require.False(t, IsHashed("secret"))
	require.False(t, IsHashed("$2a$10$short"))
	require.False(t, IsHashed(strings.Repeat("a", 60)))
}
