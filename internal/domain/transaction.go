package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

func (t TransactionType) Valid() bool {
	return t == TransactionDebit || t == TransactionCredit
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionReversed  TransactionStatus = "reversed"
)

type Transaction struct {
	ID               uuid.UUID         `json:"id" gorm:"type:uuid;primary_key"`
	CustomerID       string            `json:"customerId" gorm:"not null;index"`
	Description      string            `json:"description" gorm:"not null"`
	Amount           Money             `json:"amount" gorm:"not null"`
	Currency         string            `json:"currency" gorm:"size:3;not null"`
	Category         string            `json:"category" gorm:"not null"`
	MerchantName     string            `json:"merchantName" gorm:"not null"`
	MerchantCategory string            `json:"merchantCategory"`
	Type             TransactionType   `json:"type" gorm:"not null"`
	Status           TransactionStatus `json:"status" gorm:"not null"`
	TransactionDate  time.Time         `json:"transactionDate" gorm:"not null;index"`
	CreatedAt        time.Time         `json:"createdAt"`
	Reference        string            `json:"reference"`
	CardLastFour     string            `json:"cardLastFour"`
	IsDisputed       bool              `json:"isDisputed" gorm:"not null;default:false"`
}

// TransactionFilter holds the AND-combined listing filters. Zero values mean
// "no filter".
type TransactionFilter struct {
	CustomerID string
	FromDate   *time.Time
	ToDate     *time.Time
	Category   string
	Type       *TransactionType
	MinAmount  *Money
	MaxAmount  *Money
	Disputed   *bool
	Search     string
	Page       int
	PageSize   int
}
