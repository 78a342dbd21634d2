package security_test

import (
	"strings"
	"testing"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/angelmondragon/darkstore-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password1", fastConfig())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=32768,t=1,p=1$"))

	ok, err := security.VerifyPassword("very-secure-password1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = security.VerifyPassword("bogus-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	first, err := security.HashPassword("same-password9", fastConfig())
	require.NoError(t, err)
	second, err := security.HashPassword("same-password9", fastConfig())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := security.HashPassword("", fastConfig())
	require.Error(t, err)
}

func TestVerifyPasswordBadHash(t *testing.T) {
	_, err := security.VerifyPassword("irrelevant", "not-a-hash")
	require.ErrorIs(t, err, security.ErrInvalidHash)
}

func TestCheckStrength(t *testing.T) {
	require.NoError(t, security.CheckStrength("warehouse42"))
	require.ErrorIs(t, security.CheckStrength("short1"), security.ErrWeakPassword)
	require.ErrorIs(t, security.CheckStrength("lettersonly"), security.ErrWeakPassword)
	require.ErrorIs(t, security.CheckStrength("1234567890"), security.ErrWeakPassword)
}

func TestVerifyPasswordKeepsWorkingAfterCostChange(t *testing.T) {
	hash, err := security.HashPassword("rotate-me7", fastConfig())
	require.NoError(t, err)

	stronger := fastConfig()
	stronger.ArgonTime = 2
	rehashed, err := security.HashPassword("rotate-me7", stronger)
	require.NoError(t, err)
	require.Contains(t, rehashed, "t=2")

	ok, err := security.VerifyPassword("rotate-me7", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordRejectsTamperedParams(t *testing.T) {
	hash, err := security.HashPassword("tamper-check1", fastConfig())
	require.NoError(t, err)

	_, err = security.VerifyPassword("tamper-check1", strings.Replace(hash, "m=32768,t=1,p=1", "m=x,t=1,p=1", 1))
	require.ErrorIs(t, err, security.ErrInvalidHash)
}
