package iam

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/config"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// JWTClaims carries the session identity inside a signed token
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 session tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.SecretKey),
		ttl:    time.Duration(cfg.AccessTokenTTL) * time.Second,
		issuer: cfg.Issuer,
	}
}

// IssueToken signs a new token for the given claims
func (tm *TokenManager) IssueToken(claims *types.UserClaims) (*types.AuthToken, error) {
	now := time.Now()
	expirationTime := now.Add(tm.ttl)

	jwtClaims := &JWTClaims{
		UserID:   claims.UserID,
		Name:     claims.Name,
		Email:    claims.Email,
		Role:     string(claims.Role),
		TenantID: claims.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tm.issuer,
			Subject:   claims.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &types.AuthToken{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   int64(tm.ttl.Seconds()),
		IssuedAt:    now,
	}, nil
}

// ValidateToken parses and validates a token and returns the session
// claims. A token carrying a role outside the closed set is rejected.
func (tm *TokenManager) ValidateToken(tokenString string) (*types.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	role, err := types.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("token carries an unresolvable role: %w", err)
	}

	return &types.UserClaims{
		UserID:   claims.UserID,
		Name:     claims.Name,
		Email:    claims.Email,
		Role:     role,
		TenantID: claims.TenantID,
	}, nil
}
