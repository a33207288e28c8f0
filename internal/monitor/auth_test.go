package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("test-secret")

	tok, err := ti.Issue("operator-1", "read", time.Hour)
	require.NoError(t, err)

	claims, err := ti.Verify("Bearer " + tok)
	require.NoError(t, err)
	assert.Equal(t, "operator-1", claims.Subject)
	assert.Equal(t, "read", claims.Scope)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	ti := NewTokenIssuer("test-secret")

	tok, err := ti.Issue("operator-1", "read", -time.Hour)
	require.NoError(t, err)

	_, err = ti.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsWrongSecret(t *testing.T) {
	ti := NewTokenIssuer("secret-a")
	other := NewTokenIssuer("secret-b")

	tok, err := ti.Issue("operator-1", "control", time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
