// Package auth implements the signed-token codec: it encodes and decodes
// token payloads and verifies the HMAC signature. It performs no
// business-rule checks; revocation, expiry, type and fingerprint are
// validated by the token service.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/referral/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes short-lived access tokens from long-lived
// refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the signed token payload: standard claims (subject, expiry)
// plus the token type and the client fingerprint captured at issuance.
type Claims struct {
	jwt.RegisteredClaims
	TokenType   TokenType `json:"token_type"`
	Fingerprint string    `json:"fingerprint"`
}

// GenerateToken signs a token for userID with the given type, fingerprint
// and validity window, using HS256 over the shared secret.
func GenerateToken(userID string, tokenType TokenType, fingerprint string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		TokenType:   tokenType,
		Fingerprint: fingerprint,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and structure of tokenString and returns
// its claims. Expired tokens parse successfully; claim validation is disabled
// here so the caller decides on expiry. Any signature, structure or algorithm
// problem is reported as common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
