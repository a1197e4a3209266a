package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correcthorse")
	require.NoError(t, err)
	require.NotEqual(t, "correcthorse", hash)

	require.NoError(t, hasher.Compare(hash, "correcthorse"))
	require.Error(t, hasher.Compare(hash, "wrong-password"))
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(-1)

	hash, err := hasher.Hash("correcthorse")
	require.NoError(t, err)
	require.NoError(t, hasher.Compare(hash, "correcthorse"))
}
