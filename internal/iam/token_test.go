package iam

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/config"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

func testTokenManager() *TokenManager {
	return NewTokenManager(&config.JWTConfig{
		SecretKey:      "test-secret-key-for-unit-tests",
		AccessTokenTTL: 3600,
		Issuer:         "cabinet-test",
	})
}

func TestTokenRoundTrip(t *testing.T) {
	tm := testTokenManager()

	token, err := tm.IssueToken(&types.UserClaims{
		UserID:   "user-1",
		Name:     "Dr. Benali",
		Email:    "benali@cabinet.dz",
		Role:     types.RoleDoctor,
		TenantID: "tenant-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), token.ExpiresIn)

	claims, err := tm.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, types.RoleDoctor, claims.Role)
	assert.Equal(t, "tenant-1", claims.TenantID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	tm := testTokenManager()
	other := NewTokenManager(&config.JWTConfig{
		SecretKey:      "a-different-secret-entirely",
		AccessTokenTTL: 3600,
		Issuer:         "cabinet-test",
	})

	token, err := other.IssueToken(&types.UserClaims{UserID: "user-1", Role: types.RoleAdmin})
	require.NoError(t, err)

	_, err = tm.ValidateToken(token.AccessToken)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	tm := testTokenManager()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: "user-1",
		Role:   string(types.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret-key-for-unit-tests"))
	require.NoError(t, err)

	_, err = tm.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateTokenRejectsUnknownRole(t *testing.T) {
	tm := testTokenManager()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: "user-1",
		Role:   "superadmin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := forged.SignedString([]byte("test-secret-key-for-unit-tests"))
	require.NoError(t, err)

	_, err = tm.ValidateToken(signed)
	assert.Error(t, err, "a role outside the closed set must not authenticate")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))

	_, err = HashPassword("short")
	assert.Error(t, err)
}
