package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/referral/internal/common"
	"github.com/dmitrijs2005/referral/internal/dbx"
	"github.com/dmitrijs2005/referral/internal/server/models"
	"github.com/dmitrijs2005/referral/internal/server/repositories/referralcache"
	"github.com/dmitrijs2005/referral/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const referralCodeLength = 16

// ReferralService owns the create/delete/lookup protocol for referral codes
// across the durable store and the cache projection.
//
// The two stores share no transaction. Liveness is defined by the cache
// projection: a durable row without a projection is dead and is removed on
// the owner's next create. A dangling row left behind by a failed delete is
// healed the same way.
type ReferralService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	cache referralcache.Repository
}

func NewReferralService(db *sql.DB, m repomanager.RepositoryManager, cache referralcache.Repository) *ReferralService {
	return &ReferralService{db: db, repos: m, cache: cache}
}

// Create issues a new referral code for user with the given lifetime.
// A live projection for the owner means a live code already exists:
// common.ErrorAlreadyExists. Code collisions and concurrent creates for one
// owner hit the storage uniqueness constraints and also surface
// common.ErrorAlreadyExists; the only retry is the one-shot heal of a
// projectionless leftover row.
func (s *ReferralService) Create(ctx context.Context, user *models.User, lifetimeHours int) (*models.ReferralCode, error) {
	if lifetimeHours < 1 {
		return nil, common.ErrInvalidCodeLifetime
	}

	_, err := s.cache.GetCode(ctx, user.Email)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	codeValue, err := common.MakeRandAlphanumString(referralCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generating code: %w", err)
	}

	lifetime := time.Duration(lifetimeHours) * time.Hour
	code := &models.ReferralCode{
		ID:        uuid.NewString(),
		Code:      codeValue,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(lifetime),
	}

	// The in-transaction cleanup touches expired rows only. An unexpired
	// row must trip UNIQUE(user_id), so a create racing a concurrent
	// winner cannot silently replace the winner's committed row.
	err = s.storeCode(ctx, code, false)
	if errors.Is(err, common.ErrorAlreadyExists) {
		// An unexpired row blocked the insert. Backed by a projection it
		// is a live code and this create loses. With no projection it is
		// a leftover from a failed delete; clear it and retry once.
		if _, lookErr := s.cache.GetCode(ctx, user.Email); lookErr == nil {
			return nil, common.ErrorAlreadyExists
		} else if !errors.Is(lookErr, common.ErrorNotFound) {
			return nil, lookErr
		}
		err = s.storeCode(ctx, code, true)
	}
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("storing referral code: %w", err)
	}

	if err := s.cache.SetCode(ctx, user.Email, code.Code, lifetime); err != nil {
		return nil, err
	}

	return code, nil
}

// storeCode clears the owner's previous row and inserts the new one in a
// single transaction. clearUnexpired widens the cleanup to any row of the
// owner; the default removes expired rows only.
func (s *ReferralService) storeCode(ctx context.Context, code *models.ReferralCode, clearUnexpired bool) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.ReferralCodes(tx)

		var err error
		if clearUnexpired {
			err = repo.DeleteByUserID(ctx, code.UserID)
		} else {
			err = repo.DeleteExpiredByUserID(ctx, code.UserID)
		}
		if err != nil {
			return err
		}

		_, err = repo.Create(ctx, code)
		return err
	})
}

// Delete removes the user's live code. It reports false, nil when there is
// nothing to delete; that is a valid outcome, not a failure. The cache
// projection goes first; if the durable delete then fails, the next Create
// cleans up the leftover row.
func (s *ReferralService) Delete(ctx context.Context, user *models.User) (bool, error) {
	_, err := s.cache.GetCode(ctx, user.Email)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.cache.DeleteCode(ctx, user.Email); err != nil {
		return false, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.ReferralCodes(tx).DeleteByUserID(ctx, user.ID)
	})
	if err != nil {
		return false, fmt.Errorf("deleting referral code: %w", err)
	}

	return true, nil
}

// LookupByEmail returns the live code for email, or "" when none exists.
// It reads only the cache projection, never the durable store, so an
// unregistered email and a registered account without an active code are
// indistinguishable.
func (s *ReferralService) LookupByEmail(ctx context.Context, email string) (string, error) {
	code, err := s.cache.GetCode(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}
