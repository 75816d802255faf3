package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etshoes/internal/model"
)

func TestJWTService_AccessToken(t *testing.T) {
	svc := NewJWTService("secret")
	userID := uuid.New()

	tokenID, token, err := svc.GenerateAccessToken(userID, model.RoleSeller)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, model.RoleSeller, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, tokenID, claims.ID)
	assert.InDelta(t, AccessTokenExpiry.Seconds(), Remaining(claims).Seconds(), 5)

	_, err = svc.ValidateRefreshToken(token)
	assert.Error(t, err, "access tokens must not refresh")
}

func TestJWTService_RefreshToken(t *testing.T) {
	svc := NewJWTService("secret")
	userID := uuid.New()

	tokenID, token, err := svc.GenerateRefreshToken(userID, model.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.ID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestJWTService_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc := NewJWTService("secret")

	_, token, err := NewJWTService("other").GenerateAccessToken(uuid.New(), model.RoleSeller)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: uuid.New(),
		Role:   model.RoleSeller,
		Type:   TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString(svc.Secret())
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestRemaining(t *testing.T) {
	assert.Zero(t, Remaining(nil))
	assert.Zero(t, Remaining(&Claims{}))
	past := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}}
	assert.Zero(t, Remaining(past))
}

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken()
	require.NoError(t, err)
	b, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
