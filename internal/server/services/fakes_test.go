package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/referral/internal/common"
	"github.com/dmitrijs2005/referral/internal/dbx"
	"github.com/dmitrijs2005/referral/internal/server/models"
	"github.com/dmitrijs2005/referral/internal/server/repositories/referralcodes"
	"github.com/dmitrijs2005/referral/internal/server/repositories/users"
)

// --- revocation ledger fake ---

type fakeLedger struct {
	revoked map[string]time.Duration
	err     error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{revoked: make(map[string]time.Duration)}
}

func (f *fakeLedger) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[token] = ttl
	return nil
}

func (f *fakeLedger) RevokeIfAbsent(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.revoked[token]; ok {
		return false, nil
	}
	f.revoked[token] = ttl
	return true, nil
}

func (f *fakeLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[token]
	return ok, nil
}

// --- referral cache fake ---

type fakeCache struct {
	codes map[string]string
	ttls  map[string]time.Duration

	getErr    error
	setErr    error
	deleteErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{codes: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeCache) GetCode(ctx context.Context, email string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	code, ok := f.codes[email]
	if !ok {
		return "", common.ErrorNotFound
	}
	return code, nil
}

func (f *fakeCache) SetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.codes[email] = code
	f.ttls[email] = ttl
	return nil
}

func (f *fakeCache) DeleteCode(ctx context.Context, email string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.codes, email)
	delete(f.ttls, email)
	return nil
}

// --- repositories ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error

	byCodeOut *models.User
	byCodeErr error

	listOut []*models.User
	listErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeUsersRepo) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	if f.byCodeErr != nil {
		return nil, f.byCodeErr
	}
	return f.byCodeOut, nil
}

func (f *fakeUsersRepo) ListByReferrerID(ctx context.Context, referrerID string) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeCodesRepo struct {
	createErr     error
	createErrOnce error
	created       []*models.ReferralCode

	getOut *models.ReferralCode
	getErr error

	deleteErr         error
	deletedFor        []string
	expiredDeletedFor []string
}

func (f *fakeCodesRepo) Create(ctx context.Context, code *models.ReferralCode) (*models.ReferralCode, error) {
	if f.createErrOnce != nil {
		err := f.createErrOnce
		f.createErrOnce = nil
		return nil, err
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, code)
	return code, nil
}

func (f *fakeCodesRepo) GetByUserID(ctx context.Context, userID string) (*models.ReferralCode, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeCodesRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedFor = append(f.deletedFor, userID)
	return nil
}

func (f *fakeCodesRepo) DeleteExpiredByUserID(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.expiredDeletedFor = append(f.expiredDeletedFor, userID)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeCodesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.u }

func (m *fakeRepoManager) ReferralCodes(db dbx.DBTX) referralcodes.Repository { return m.c }

// --- email oracle ---

type fakeChecker struct {
	deliverable bool
	checkErr    error

	available    int
	availableErr error
}

func (f *fakeChecker) IsDeliverable(ctx context.Context, email string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.deliverable, nil
}

func (f *fakeChecker) AvailableVerifications(ctx context.Context) (int, error) {
	if f.availableErr != nil {
		return 0, f.availableErr
	}
	return f.available, nil
}
