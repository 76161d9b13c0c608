// Package repomanager constructs entity repositories over a shared DB
// handle, so services can run several repositories inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/referral/internal/dbx"
	"github.com/dmitrijs2005/referral/internal/server/repositories/referralcodes"
	"github.com/dmitrijs2005/referral/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	ReferralCodes(db dbx.DBTX) referralcodes.Repository
}
