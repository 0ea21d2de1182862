package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "samadhan/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-signing-key", "samadhan", "field-agents")

	token, err := svc.GenerateAccessToken("agent-42", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "agent-42", claims.AgentID)
	assert.Equal(t, "samadhan", claims.Issuer)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewService("test-signing-key", "samadhan", "field-agents")

	token, err := svc.GenerateAccessToken("agent-42", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestWrongKeyRejected(t *testing.T) {
	issuer := NewService("key-one", "samadhan", "field-agents")
	verifier := NewService("key-two", "samadhan", "field-agents")

	token, err := issuer.GenerateAccessToken("agent-42", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
