package repository

import (
	"context"

	"github.com/finport/dispute-portal/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Update(ctx context.Context, token *domain.RefreshToken) error
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	CreateBatch(ctx context.Context, transactions []*domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, filter domain.TransactionFilter) (*domain.PagedResult[domain.Transaction], error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Transaction, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
	SetDisputed(ctx context.Context, id uuid.UUID, disputed bool) error
	Categories(ctx context.Context) ([]string, error)
}

type DisputeRepository interface {
	Create(ctx context.Context, dispute *domain.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error)
	List(ctx context.Context, filter domain.DisputeFilter) (*domain.PagedResult[domain.Dispute], error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Dispute, error)
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*domain.Dispute, error)
	FindActiveByTransaction(ctx context.Context, transactionID uuid.UUID) (*domain.Dispute, error)
	Update(ctx context.Context, dispute *domain.Dispute) error
	Statistics(ctx context.Context, customerID string) (*domain.DisputeStatistics, error)
}

type Repositories struct {
	Users         UserRepository
	RefreshTokens RefreshTokenRepository
	Transactions  TransactionRepository
	Disputes      DisputeRepository
}

// TxRunner executes fn against a transactional view of the repositories, so
// multi-row flows commit or roll back as one unit.
type TxRunner interface {
	InTx(ctx context.Context, fn func(repos *Repositories) error) error
}
