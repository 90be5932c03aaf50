package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("s3cret", time.Hour)

	signed, err := tokens.GenerateJWT("ravi", "doctor")
	require.NoError(t, err)

	claims, err := tokens.ValidateJWT(signed)
	require.NoError(t, err)
	assert.Equal(t, "ravi", claims.Subject)
	assert.Equal(t, "doctor", claims.Role)
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens("s3cret", time.Hour)
	signed, err := tokens.GenerateJWT("ravi", "patient")
	require.NoError(t, err)

	_, err = NewTokens("other", time.Hour).ValidateJWT(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("s3cret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.ValidateJWT(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "ravi"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.ValidateJWT(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.ValidateJWT("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
