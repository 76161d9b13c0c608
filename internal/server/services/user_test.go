package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/referral/internal/common"
	"github.com/dmitrijs2005/referral/internal/server/auth"
	"github.com/dmitrijs2005/referral/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success without referral code", func(t *testing.T) {
		repo := &fakeUsersRepo{byEmailErr: common.ErrorNotFound}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{deliverable: true})

		user, err := s.Register(ctx, "new@example.com", "password1", nil)
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Nil(t, user.ReferrerID)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password1")))
	})

	t.Run("success with live referral code", func(t *testing.T) {
		repo := &fakeUsersRepo{
			byEmailErr: common.ErrorNotFound,
			byCodeOut: &models.User{
				ID: "referrer-1",
				ReferralCode: &models.ReferralCode{
					Code:      "SOMECODE00000001",
					ExpiresAt: time.Now().Add(time.Hour),
				},
			},
		}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{deliverable: true})

		user, err := s.Register(ctx, "new@example.com", "password1", strPtr("SOMECODE00000001"))
		require.NoError(t, err)

		require.NotNil(t, user.ReferrerID)
		assert.Equal(t, "referrer-1", *user.ReferrerID)
	})

	t.Run("email already taken", func(t *testing.T) {
		repo := &fakeUsersRepo{byEmailOut: &models.User{ID: "user-1"}}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{deliverable: true})

		_, err := s.Register(ctx, "taken@example.com", "password1", nil)
		require.ErrorIs(t, err, common.ErrorAlreadyExists)
	})

	t.Run("undeliverable email", func(t *testing.T) {
		repo := &fakeUsersRepo{byEmailErr: common.ErrorNotFound}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{deliverable: false})

		_, err := s.Register(ctx, "bogus@example.com", "password1", nil)
		require.ErrorIs(t, err, common.ErrEmailNotDeliverable)
	})

	t.Run("oracle outage surfaces", func(t *testing.T) {
		repo := &fakeUsersRepo{byEmailErr: common.ErrorNotFound}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{checkErr: common.ErrUnavailable})

		_, err := s.Register(ctx, "new@example.com", "password1", nil)
		require.ErrorIs(t, err, common.ErrUnavailable)
	})

	t.Run("unknown referral code", func(t *testing.T) {
		repo := &fakeUsersRepo{byEmailErr: common.ErrorNotFound, byCodeErr: common.ErrorNotFound}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{deliverable: true})

		_, err := s.Register(ctx, "new@example.com", "password1", strPtr("NOSUCHCODE000001"))
		require.ErrorIs(t, err, common.ErrInvalidReferralCode)
	})

	t.Run("expired referral code", func(t *testing.T) {
		repo := &fakeUsersRepo{
			byEmailErr: common.ErrorNotFound,
			byCodeOut: &models.User{
				ID: "referrer-1",
				ReferralCode: &models.ReferralCode{
					Code:      "SOMECODE00000001",
					ExpiresAt: time.Now().Add(-time.Hour),
				},
			},
		}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{deliverable: true})

		_, err := s.Register(ctx, "new@example.com", "password1", strPtr("SOMECODE00000001"))
		require.ErrorIs(t, err, common.ErrInvalidReferralCode)
	})

	t.Run("concurrent registration loses on uniqueness", func(t *testing.T) {
		repo := &fakeUsersRepo{byEmailErr: common.ErrorNotFound, createErr: common.ErrorAlreadyExists}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{deliverable: true})

		_, err := s.Register(ctx, "raced@example.com", "password1", nil)
		require.ErrorIs(t, err, common.ErrorAlreadyExists)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{ID: "user-1", Email: "user@example.com", PasswordHash: string(hash)}

	t.Run("success", func(t *testing.T) {
		tokens := newTokenService(newFakeLedger())
		repo := &fakeUsersRepo{byEmailOut: account}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, tokens, &fakeChecker{})

		pair, err := s.Login(ctx, "user@example.com", "password1", "Mozilla/5.0")
		require.NoError(t, err)

		claims, err := tokens.Verify(ctx, pair.AccessToken, auth.TokenTypeAccess, "Mozilla/5.0")
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)

		_, err = tokens.Verify(ctx, pair.RefreshToken, auth.TokenTypeRefresh, "Mozilla/5.0")
		require.NoError(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := &fakeUsersRepo{byEmailErr: common.ErrorNotFound}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{})

		_, err := s.Login(ctx, "nobody@example.com", "password1", "Mozilla/5.0")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &fakeUsersRepo{byEmailOut: account}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{})

		_, err := s.Login(ctx, "user@example.com", "wrong", "Mozilla/5.0")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})
}

func TestUserService_ResolvePrincipal(t *testing.T) {
	ctx := context.Background()
	tokens := newTokenService(newFakeLedger())

	access, err := tokens.Issue("user-1", auth.TokenTypeAccess, "Mozilla/5.0")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		repo := &fakeUsersRepo{byIDOut: &models.User{ID: "user-1", Email: "user@example.com"}}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, tokens, &fakeChecker{})

		user, err := s.ResolvePrincipal(ctx, access, "Mozilla/5.0")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	})

	t.Run("fingerprint mismatch", func(t *testing.T) {
		s := NewUserService(nil, &fakeRepoManager{u: &fakeUsersRepo{}}, tokens, &fakeChecker{})

		_, err := s.ResolvePrincipal(ctx, access, "curl/8.0")
		require.ErrorIs(t, err, common.ErrFingerprintMismatch)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		repo := &fakeUsersRepo{byIDErr: common.ErrorNotFound}
		s := NewUserService(nil, &fakeRepoManager{u: repo}, tokens, &fakeChecker{})

		_, err := s.ResolvePrincipal(ctx, access, "Mozilla/5.0")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("refresh token is not a principal", func(t *testing.T) {
		refresh, err := tokens.Issue("user-1", auth.TokenTypeRefresh, "Mozilla/5.0")
		require.NoError(t, err)

		s := NewUserService(nil, &fakeRepoManager{u: &fakeUsersRepo{}}, tokens, &fakeChecker{})
		_, err = s.ResolvePrincipal(ctx, refresh, "Mozilla/5.0")
		require.ErrorIs(t, err, common.ErrWrongTokenType)
	})
}

func TestUserService_Referrals(t *testing.T) {
	ctx := context.Background()
	owner := &models.User{ID: "user-1", Email: "user@example.com"}

	repo := &fakeUsersRepo{listOut: []*models.User{
		{ID: "ref-1", Email: "a@example.com"},
		{ID: "ref-2", Email: "b@example.com"},
	}}
	s := NewUserService(nil, &fakeRepoManager{u: repo}, nil, &fakeChecker{})

	got, err := s.Referrals(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, owner, got.User)
	assert.Equal(t, 2, got.ReferralsCount)
	assert.Len(t, got.Referrals, 2)
}

func TestUserService_RegistrationsAvailable(t *testing.T) {
	s := NewUserService(nil, &fakeRepoManager{}, nil, &fakeChecker{available: 42})

	got, err := s.RegistrationsAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
