package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2", 4)
	require.NoError(t, err)
	require.NotEqual(t, "hunter2hunter2", hash)

	require.True(t, VerifyPassword(hash, "hunter2hunter2"))
	require.False(t, VerifyPassword(hash, "wrong"))
}

func TestRequestValidator(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}
	v := NewRequestValidator()
	require.NoError(t, v.Validate(&payload{Email: "a@example.com"}))
	require.Error(t, v.Validate(&payload{Email: "not-an-email"}))
}
