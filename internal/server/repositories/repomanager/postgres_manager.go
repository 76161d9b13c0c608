package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/referral/internal/dbx"
	"github.com/dmitrijs2005/referral/internal/server/migrations"
	"github.com/dmitrijs2005/referral/internal/server/repositories/referralcodes"
	"github.com/dmitrijs2005/referral/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ReferralCodes(db dbx.DBTX) referralcodes.Repository {
	return referralcodes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
