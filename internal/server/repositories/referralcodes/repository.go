package referralcodes

import (
	"context"

	"github.com/dmitrijs2005/referral/internal/server/models"
)

// Repository persists referral code rows. The table enforces UNIQUE(code)
// and UNIQUE(user_id); both violations surface as common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, code *models.ReferralCode) (*models.ReferralCode, error)
	GetByUserID(ctx context.Context, userID string) (*models.ReferralCode, error)
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpiredByUserID(ctx context.Context, userID string) error
}
