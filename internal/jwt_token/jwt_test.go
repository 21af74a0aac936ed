package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kyccore/pkg/domain"
	dErrors "kyccore/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer", "kyc")
var userID = id.UserID(uuid.New())

func Test_GenerateAndValidate(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userID, time.Hour)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userID, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token has expired")
}

func Test_ValidateToken_WrongKeyOrAudience(t *testing.T) {
	t.Run("different signing key", func(t *testing.T) {
		other := NewJWTService("other-key", "test-issuer", "kyc")
		token, err := other.GenerateAccessToken(userID, time.Hour)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("different audience", func(t *testing.T) {
		other := NewJWTService("test-signing-key", "test-issuer", "payments")
		token, err := other.GenerateAccessToken(userID, time.Hour)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "test-issuer",
			Audience:  []string{"kyc"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(signed)
		require.Error(t, err)
	})
}

func Test_AdapterMapsSubject(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userID, time.Hour)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(jwtService).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.NotEmpty(t, claims.JTI)
}
