package users

import (
	"context"

	"github.com/dmitrijs2005/referral/internal/server/models"
)

// Repository persists users. GetByID and ListByReferrerID populate the
// owned ReferralCode row when one exists; a missing row leaves the field nil.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	ListByReferrerID(ctx context.Context, referrerID string) ([]*models.User, error)
}
