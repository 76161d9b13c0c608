// Package services contains server-side business logic: the token lifecycle,
// the referral-code dual-store protocol, and user registration/authentication.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/referral/internal/common"
	"github.com/dmitrijs2005/referral/internal/server/auth"
	"github.com/dmitrijs2005/referral/internal/server/config"
	"github.com/dmitrijs2005/referral/internal/server/revocation"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService issues and verifies signed tokens and orchestrates the
// revocation ledger around them. Tokens are stateless; the only server-side
// state is the ledger.
type TokenService struct {
	ledger                       revocation.Ledger
	secretKey                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewTokenService(ledger revocation.Ledger, cfg *config.Config) *TokenService {
	return &TokenService{
		ledger:                       ledger,
		secretKey:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Issue mints a token of the given type for userID, bound to fingerprint.
// The validity window is selected by type.
func (s *TokenService) Issue(userID string, tokenType auth.TokenType, fingerprint string) (string, error) {
	token, err := auth.GenerateToken(userID, tokenType, fingerprint, s.secretKey, s.validityFor(tokenType))
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return token, nil
}

// Verify checks tokenString in order: revocation, signature/structure, type,
// expiry, fingerprint. Each failure returns its own sentinel so callers can
// distinguish the denial reasons.
func (s *TokenService) Verify(ctx context.Context, tokenString string, expectedType auth.TokenType, fingerprint string) (*auth.Claims, error) {
	revoked, err := s.ledger.IsRevoked(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	claims, err := auth.ParseToken(tokenString, s.secretKey)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != expectedType {
		return nil, common.ErrWrongTokenType
	}

	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		return nil, common.ErrTokenExpired
	}

	if claims.Fingerprint != fingerprint {
		return nil, common.ErrFingerprintMismatch
	}

	return claims, nil
}

// RotateRefresh performs single-hop rotation: it verifies the old refresh
// token, revokes the exact old token string for the full refresh validity
// window, then issues a fresh pair for the same subject and fingerprint.
// The revocation uses an atomic set-if-absent, so of two concurrent
// rotations of one token exactly one succeeds; the loser gets
// common.ErrTokenRevoked.
func (s *TokenService) RotateRefresh(ctx context.Context, refreshToken string, fingerprint string) (*TokenPair, error) {
	claims, err := s.Verify(ctx, refreshToken, auth.TokenTypeRefresh, fingerprint)
	if err != nil {
		return nil, err
	}

	won, err := s.ledger.RevokeIfAbsent(ctx, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, common.ErrTokenRevoked
	}

	return s.issuePair(claims.Subject, fingerprint)
}

// RevokeAccess places an access token on the ledger. The revocation window
// equals the configured access-token validity duration, which always covers
// the token's remaining lifetime.
func (s *TokenService) RevokeAccess(ctx context.Context, accessToken string) error {
	return s.ledger.Revoke(ctx, accessToken, s.accessTokenValidityDuration)
}

func (s *TokenService) issuePair(userID string, fingerprint string) (*TokenPair, error) {
	access, err := s.Issue(userID, auth.TokenTypeAccess, fingerprint)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Issue(userID, auth.TokenTypeRefresh, fingerprint)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) validityFor(tokenType auth.TokenType) time.Duration {
	if tokenType == auth.TokenTypeRefresh {
		return s.refreshTokenValidityDuration
	}
	return s.accessTokenValidityDuration
}
