package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, email, password_hash, referrer_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.ReferrerID).Scan(&user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, referrer_id, created_at FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.ReferrerID, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT u.id, u.email, u.password_hash, u.referrer_id, u.created_at,
		        rc.id, rc.code, rc.expires_at, rc.created_at
		 FROM users u
		 LEFT JOIN referral_codes rc ON rc.user_id = u.id
		 WHERE u.id = $1
		 `

	user, err := scanUserWithCode(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	query :=
		`SELECT u.id, u.email, u.password_hash, u.referrer_id, u.created_at,
		        rc.id, rc.code, rc.expires_at, rc.created_at
		 FROM users u
		 JOIN referral_codes rc ON rc.user_id = u.id
		 WHERE rc.code = $1
		 `

	user, err := scanUserWithCode(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) ListByReferrerID(ctx context.Context, referrerID string) ([]*models.User, error) {
	query :=
		`SELECT u.id, u.email, u.password_hash, u.referrer_id, u.created_at,
		        rc.id, rc.code, rc.expires_at, rc.created_at
		 FROM users u
		 LEFT JOIN referral_codes rc ON rc.user_id = u.id
		 WHERE u.referrer_id = $1
		 ORDER BY u.created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, referrerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user, err := scanUserWithCode(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserWithCode(row rowScanner) (*models.User, error) {
	user := &models.User{}
	code := &models.ReferralCode{}

	var codeID, codeValue sql.NullString
	var codeExpiresAt, codeCreatedAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.ReferrerID, &user.CreatedAt,
		&codeID, &codeValue, &codeExpiresAt, &codeCreatedAt)
	if err != nil {
		return nil, err
	}

	if codeID.Valid {
		code.ID = codeID.String
		code.Code = codeValue.String
		code.UserID = user.ID
		code.ExpiresAt = codeExpiresAt.Time
		code.CreatedAt = codeCreatedAt.Time
		user.ReferralCode = code
	}

	return user, nil
}
