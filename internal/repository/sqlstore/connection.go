package sqlstore

import (
	"context"
	"strings"

	"github.com/finport/dispute-portal/internal/domain"
	"github.com/finport/dispute-portal/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. Postgres DSNs get the postgres
// driver; anything else is treated as a sqlite path.
func Open(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema. The partial unique index enforces at most one
// active dispute per transaction at the database level, closing the
// check-then-insert race on dispute creation.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Transaction{},
		&domain.Dispute{},
	)
	if err != nil {
		return err
	}

	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_disputes_active_txn
		ON disputes (transaction_id)
		WHERE status NOT IN ('resolved', 'rejected', 'cancelled')`).Error
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Users:         NewUserRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		Transactions:  NewTransactionRepository(db),
		Disputes:      NewDisputeRepository(db),
	}
}

type txRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) repository.TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) InTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
