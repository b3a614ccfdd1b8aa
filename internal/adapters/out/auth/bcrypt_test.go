package auth

import (
	"testing"

	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	require.NoError(t, hasher.Compare(hash, "secret1"))
	require.ErrorIs(t, hasher.Compare(hash, "secret2"), errs.ErrUnauthenticated)

	err = hasher.Compare("not-a-bcrypt-hash", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	hasher, err := NewBcryptHasher(0)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	_, err = NewBcryptHasher(bcrypt.MaxCost + 1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
