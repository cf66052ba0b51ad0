package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/finport/dispute-portal/internal/domain"
	"github.com/finport/dispute-portal/internal/repository"
	"github.com/google/uuid"
)

type TransactionService struct {
	transactions repository.TransactionRepository
}

func NewTransactionService(transactions repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactions: transactions}
}

func (s *TransactionService) List(ctx context.Context, filter domain.TransactionFilter) (*domain.PagedResult[domain.Transaction], error) {
	return s.transactions.List(ctx, filter)
}

func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

func (s *TransactionService) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Transaction, error) {
	return s.transactions.ListByCustomer(ctx, customerID)
}

func (s *TransactionService) Categories(ctx context.Context) ([]string, error) {
	return s.transactions.Categories(ctx)
}

// MarkDisputed and UnmarkDisputed are the two flag operations the dispute
// service is allowed to call. Both are idempotent.
func (s *TransactionService) MarkDisputed(ctx context.Context, id uuid.UUID) error {
	if err := s.transactions.SetDisputed(ctx, id, true); err != nil {
		return err
	}
	log.Printf("transaction %s marked as disputed", id)
	return nil
}

func (s *TransactionService) UnmarkDisputed(ctx context.Context, id uuid.UUID) error {
	if err := s.transactions.SetDisputed(ctx, id, false); err != nil {
		return err
	}
	log.Printf("transaction %s unmarked as disputed", id)
	return nil
}

type demoMerchant struct {
	name     string
	category string
	kind     string
}

var demoMerchants = []demoMerchant{
	{"Amazon", "Shopping", "Retail"},
	{"Woolworths", "Groceries", "Supermarket"},
	{"Pick n Pay", "Groceries", "Supermarket"},
	{"Takealot", "Shopping", "Online Retail"},
	{"Netflix", "Entertainment", "Streaming"},
	{"Spotify", "Entertainment", "Streaming"},
	{"Uber", "Transportation", "Ride Share"},
	{"Mr D Food", "Food & Dining", "Delivery"},
	{"Engen", "Gas & Fuel", "Petrol Station"},
	{"Dischem", "Health", "Pharmacy"},
	{"Game", "Electronics", "Retail"},
	{"Checkers", "Groceries", "Supermarket"},
	{"Builders Warehouse", "Home", "Hardware"},
	{"Vida e Caffe", "Food & Dining", "Coffee Shop"},
	{"Spur", "Food & Dining", "Restaurant"},
}

const seedCount = 25

// SeedForCustomer creates demo transactions over the last 90 days for a
// customer that has none yet. Idempotent: an already-seeded customer gets
// their existing ledger back.
func (s *TransactionService) SeedForCustomer(ctx context.Context, customerID string) ([]*domain.Transaction, error) {
	existing, err := s.transactions.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return s.transactions.ListByCustomer(ctx, customerID)
	}

	now := time.Now().UTC()
	transactions := make([]*domain.Transaction, 0, seedCount)

	for i := 0; i < seedCount; i++ {
		daysAgo := rand.Intn(90)
		merchant := demoMerchants[rand.Intn(len(demoMerchants))]
		amount := domain.MoneyFromFloat(rand.Float64()*2000 + 50)

		txType := domain.TransactionDebit
		if rand.Float64() > 0.9 {
			txType = domain.TransactionCredit
		}
		status := domain.TransactionCompleted
		if rand.Float64() <= 0.05 {
			status = domain.TransactionPending
		}

		transactions = append(transactions, &domain.Transaction{
			ID:               uuid.New(),
			CustomerID:       customerID,
			Description:      fmt.Sprintf("Transaction at %s", merchant.name),
			Amount:           amount,
			Currency:         "ZAR",
			Category:         merchant.category,
			MerchantName:     merchant.name,
			MerchantCategory: merchant.kind,
			Type:             txType,
			Status:           status,
			TransactionDate:  now.AddDate(0, 0, -daysAgo).Add(time.Duration(8+rand.Intn(14)) * time.Hour),
			CreatedAt:        now.AddDate(0, 0, -daysAgo),
			Reference:        fmt.Sprintf("TXN%d%02d%06d", now.Year(), int(now.Month()), 100000+rand.Intn(900000)),
			CardLastFour:     "4242",
		})
	}

	if err := s.transactions.CreateBatch(ctx, transactions); err != nil {
		return nil, err
	}

	log.Printf("seeded %d transactions for customer %s", len(transactions), customerID)
	return transactions, nil
}
