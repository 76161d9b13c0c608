package referralcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/referral/internal/common"
	"github.com/dmitrijs2005/referral/internal/dbx"
	"github.com/dmitrijs2005/referral/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, code *models.ReferralCode) (*models.ReferralCode, error) {

	query :=
		`INSERT INTO referral_codes (id, code, user_id, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		code.ID, code.Code, code.UserID, code.ExpiresAt).Scan(&code.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return code, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.ReferralCode, error) {
	query :=
		`SELECT id, code, user_id, expires_at, created_at FROM referral_codes
		 WHERE user_id = $1
		 `

	code := &models.ReferralCode{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&code.ID, &code.Code, &code.UserID, &code.ExpiresAt, &code.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return code, nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM referral_codes
		 WHERE user_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// DeleteExpiredByUserID removes the owner's row only when it is past its
// expiry, leaving an unexpired row to trip UNIQUE(user_id) on insert.
func (r *PostgresRepository) DeleteExpiredByUserID(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM referral_codes
		 WHERE user_id = $1 AND expires_at <= now()
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
