package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/referral/internal/common"
	"github.com/dmitrijs2005/referral/internal/server/auth"
	"github.com/dmitrijs2005/referral/internal/server/mailcheck"
	"github.com/dmitrijs2005/referral/internal/server/models"
	"github.com/dmitrijs2005/referral/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides account operations:
//   - Register: create users, optionally linked to a referrer
//   - Login: verify credentials and mint a token pair
//   - ResolvePrincipal: authenticated-principal resolution for protected calls
//   - Referrals: the caller's referrals listing
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	tokens *TokenService
	mail   mailcheck.Checker
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService, mail mailcheck.Checker) *UserService {
	return &UserService{db: db, repos: m, tokens: tokens, mail: mail}
}

// Register creates a new user. The email must be unused and deliverable
// according to the external oracle; oracle failures are surfaced, not
// swallowed. A supplied referral code must resolve to a live owner, who
// becomes the new user's referrer.
func (s *UserService) Register(ctx context.Context, email, password string, referralCode *string) (*models.User, error) {
	repo := s.repos.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	deliverable, err := s.mail.IsDeliverable(ctx, email)
	if err != nil {
		return nil, err
	}
	if !deliverable {
		return nil, common.ErrEmailNotDeliverable
	}

	var referrerID *string
	if referralCode != nil && *referralCode != "" {
		referrer, err := repo.GetByReferralCode(ctx, *referralCode)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrInvalidReferralCode
			}
			return nil, err
		}
		if referrer.ReferralCode == nil || !referrer.ReferralCode.ExpiresAt.After(time.Now()) {
			return nil, common.ErrInvalidReferralCode
		}
		referrerID = &referrer.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		ReferrerID:   referrerID,
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return created, nil
}

// Login verifies the credentials and, on success, returns a new token pair
// bound to fingerprint. Unknown email and wrong password are both reported
// as common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password, fingerprint string) (*TokenPair, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.tokens.issuePair(user.ID, fingerprint)
}

// ResolvePrincipal verifies an access token against fingerprint and loads
// the principal, including the owned referral code when one exists. A
// missing code is represented by a nil ReferralCode field.
func (s *UserService) ResolvePrincipal(ctx context.Context, accessToken, fingerprint string) (*models.User, error) {
	claims, err := s.tokens.Verify(ctx, accessToken, auth.TokenTypeAccess, fingerprint)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// Referrals returns user's referrals listing: everyone whose referrer is user.
func (s *UserService) Referrals(ctx context.Context, user *models.User) (*models.UserReferrals, error) {
	list, err := s.repos.Users(s.db).ListByReferrerID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.UserReferrals{
		User:           user,
		ReferralsCount: len(list),
		Referrals:      list,
	}, nil
}

// RegistrationsAvailable reports how many registrations the email oracle
// quota still allows.
func (s *UserService) RegistrationsAvailable(ctx context.Context) (int, error) {
	return s.mail.AvailableVerifications(ctx)
}
