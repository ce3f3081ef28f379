package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dErrors "sanctum/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-signing-key", "sanctum-test")

	tok, err := svc.Generate("alice", "ai", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := svc.Validate(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, "ai", claims.Surface)
	require.Equal(t, "sanctum-test", claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestValidateRejections(t *testing.T) {
	svc := NewService("test-signing-key", "sanctum-test")

	t.Run("expired token", func(t *testing.T) {
		tok, err := svc.Generate("alice", "ai", -time.Minute)
		require.NoError(t, err)

		_, err = svc.Validate(tok)
		require.Error(t, err)
		require.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
		require.Contains(t, err.Error(), "expired")
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewService("other-key", "sanctum-test")
		tok, err := other.Generate("alice", "ai", time.Hour)
		require.NoError(t, err)

		_, err = svc.Validate(tok)
		require.Error(t, err)
		require.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		require.Error(t, err)
		require.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}
