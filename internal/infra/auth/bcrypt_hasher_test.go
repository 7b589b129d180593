package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("StrongPass123!")
	require.NoError(t, err)
	assert.NotEqual(t, "StrongPass123!", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, hasher.Check("StrongPass123!", hash))
	assert.False(t, hasher.Check("StrongPass123?", hash))
	assert.False(t, hasher.Check("", hash))
}

func TestBcryptHasher_Salted(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("same-password", first))
	assert.True(t, hasher.Check("same-password", second))
}

func TestBcryptHasher_Cost(t *testing.T) {
	tests := []struct {
		name     string
		cost     int
		wantCost int
	}{
		{name: "configured cost", cost: bcrypt.MinCost + 1, wantCost: bcrypt.MinCost + 1},
		{name: "too low", cost: 1, wantCost: bcrypt.DefaultCost},
		{name: "too high", cost: bcrypt.MaxCost + 1, wantCost: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher, ok := NewBcryptHasher(tt.cost).(*bcryptHasher)
			require.True(t, ok)
			assert.Equal(t, tt.wantCost, hasher.cost)
		})
	}

	hash, err := NewBcryptHasher(bcrypt.MinCost + 1).Hash("cost-check")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestBcryptHasher_LongPasswords(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	long := strings.Repeat("x", 128)

	hash, err := hasher.Hash(long)
	require.NoError(t, err)
	assert.True(t, hasher.Check(long, hash))
	// Only the first 72 bytes take part in the hash.
	assert.True(t, hasher.Check(strings.Repeat("x", 72)+"different-tail", hash))
	assert.False(t, hasher.Check(strings.Repeat("x", 71), hash))
}

func TestBcryptHasher_CheckMalformedHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, hasher.Check("password", ""))
	assert.False(t, hasher.Check("password", "not-a-bcrypt-hash"))
}
