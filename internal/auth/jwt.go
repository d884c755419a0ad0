package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sentinel/internal/domain/errs"
)

// Claims is the payload carried by both token classes. TokenType keeps
// the classes apart: a refresh token presented where an access token is
// expected is rejected even though the signature is valid.
type Claims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTAuthenticator struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTAuthenticator(secret string, accessTTL, refreshTTL time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// GenerateAccessToken issues a short-lived access token for the user.
func (a *JWTAuthenticator) GenerateAccessToken(userID int64) (string, error) {
	return a.generate(userID, TokenTypeAccess, a.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token for the user.
func (a *JWTAuthenticator) GenerateRefreshToken(userID int64) (string, error) {
	return a.generate(userID, TokenTypeRefresh, a.refreshTTL)
}

func (a *JWTAuthenticator) generate(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// DecodeToken verifies signature, expiry and token class in one step.
// Every failure mode collapses into errs.ErrInvalidToken so callers leak
// nothing about which check tripped.
func (a *JWTAuthenticator) DecodeToken(token, expectedType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !parsed.Valid {
		return nil, errs.ErrInvalidToken
	}

	if claims.TokenType != expectedType {
		return nil, errs.ErrInvalidToken
	}

	return claims, nil
}
