package auth

import (
	"strings"
	"testing"

	"letsshare/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Small parameters keep the suite fast.
var testArgon2Config = config.Argon2Config{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestArgon2Hasher_HashAndCheck(t *testing.T) {
	hasher := NewArgon2Hasher(testArgon2Config)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))

	assert.True(t, hasher.Check("correct horse battery staple", hash))
	assert.False(t, hasher.Check("correct horse battery stapler", hash))
}

func TestArgon2Hasher_Salted(t *testing.T) {
	hasher := NewArgon2Hasher(testArgon2Config)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestArgon2Hasher_Defaults(t *testing.T) {
	hasher, ok := NewArgon2Hasher(config.Argon2Config{}).(*argon2Hasher)
	require.True(t, ok)

	assert.Equal(t, uint32(defaultArgon2Memory), hasher.memory)
	assert.Equal(t, uint32(defaultArgon2Iterations), hasher.iterations)
	assert.Equal(t, uint8(defaultArgon2Parallelism), hasher.parallelism)
	assert.Equal(t, uint32(defaultArgon2SaltLength), hasher.saltLength)
	assert.Equal(t, uint32(defaultArgon2KeyLength), hasher.keyLength)
}

func TestArgon2Hasher_CheckUsesEncodedParameters(t *testing.T) {
	hash, err := NewArgon2Hasher(testArgon2Config).Hash("password-123")
	require.NoError(t, err)

	other := NewArgon2Hasher(config.Argon2Config{Memory: 16 * 1024, Iterations: 2, Parallelism: 2})
	assert.True(t, other.Check("password-123", hash))
}

func TestArgon2Hasher_CheckMalformedHash(t *testing.T) {
	hasher := NewArgon2Hasher(testArgon2Config)

	tests := []string{
		"",
		"$argon2id$",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=0,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=0$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$",
	}

	for _, hash := range tests {
		assert.False(t, hasher.Check("password", hash), hash)
	}
}

func TestNewPasswordHasher(t *testing.T) {
	bcryptCfg := &config.Config{Auth: &config.AuthConfig{
		PasswordHasher: config.PasswordHasherBcrypt,
		BcryptCost:     bcrypt.MinCost,
		Argon2:         testArgon2Config,
	}}
	argonCfg := &config.Config{Auth: &config.AuthConfig{
		PasswordHasher: config.PasswordHasherArgon2id,
		BcryptCost:     bcrypt.MinCost,
		Argon2:         testArgon2Config,
	}}

	byBcrypt := NewPasswordHasher(bcryptCfg)
	byArgon := NewPasswordHasher(argonCfg)

	bcryptHash, err := byBcrypt.Hash("migrating-password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bcryptHash, "$2"))

	argonHash, err := byArgon.Hash("migrating-password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(argonHash, argon2idPrefix))

	// Either hasher verifies hashes produced by the other scheme.
	assert.True(t, byArgon.Check("migrating-password", bcryptHash))
	assert.True(t, byBcrypt.Check("migrating-password", argonHash))
	assert.False(t, byArgon.Check("wrong-password", bcryptHash))
	assert.False(t, byBcrypt.Check("wrong-password", argonHash))
}

func TestNewPasswordHasher_NilAuthConfig(t *testing.T) {
	hasher := NewPasswordHasher(&config.Config{})

	hash, err := hasher.Hash("password-123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.True(t, hasher.Check("password-123", hash))
}
