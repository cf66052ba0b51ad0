package domain

import (
	"time"

	"github.com/google/uuid"
)

type DisputeStatus string

const (
	DisputePending           DisputeStatus = "pending"
	DisputeUnderReview       DisputeStatus = "under_review"
	DisputeAwaitingDocuments DisputeStatus = "awaiting_documents"
	DisputeResolved          DisputeStatus = "resolved"
	DisputeRejected          DisputeStatus = "rejected"
	DisputeCancelled         DisputeStatus = "cancelled"
)

func (s DisputeStatus) Valid() bool {
	switch s {
	case DisputePending, DisputeUnderReview, DisputeAwaitingDocuments,
		DisputeResolved, DisputeRejected, DisputeCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted out of s.
func (s DisputeStatus) Terminal() bool {
	return s == DisputeResolved || s == DisputeRejected || s == DisputeCancelled
}

// disputeTransitions is the legal edge set of the dispute state machine.
// Cancelled is reachable from any non-terminal state.
var disputeTransitions = map[DisputeStatus][]DisputeStatus{
	DisputePending:           {DisputeUnderReview, DisputeCancelled},
	DisputeUnderReview:       {DisputeAwaitingDocuments, DisputeResolved, DisputeRejected, DisputeCancelled},
	DisputeAwaitingDocuments: {DisputeUnderReview, DisputeResolved, DisputeRejected, DisputeCancelled},
}

func (s DisputeStatus) CanTransitionTo(next DisputeStatus) bool {
	for _, allowed := range disputeTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

type DisputeCategory string

const (
	CategoryUnauthorizedTransaction DisputeCategory = "unauthorized_transaction"
	CategoryDuplicateCharge         DisputeCategory = "duplicate_charge"
	CategoryIncorrectAmount         DisputeCategory = "incorrect_amount"
	CategoryServiceNotReceived      DisputeCategory = "service_not_received"
	CategoryProductNotReceived      DisputeCategory = "product_not_received"
	CategoryQualityIssue            DisputeCategory = "quality_issue"
	CategoryRefundNotReceived       DisputeCategory = "refund_not_received"
	CategoryFraudSuspected          DisputeCategory = "fraud_suspected"
	CategoryOther                   DisputeCategory = "other"
)

func (c DisputeCategory) Valid() bool {
	switch c {
	case CategoryUnauthorizedTransaction, CategoryDuplicateCharge, CategoryIncorrectAmount,
		CategoryServiceNotReceived, CategoryProductNotReceived, CategoryQualityIssue,
		CategoryRefundNotReceived, CategoryFraudSuspected, CategoryOther:
		return true
	}
	return false
}

type Dispute struct {
	ID                   uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	TransactionID        uuid.UUID       `json:"transactionId" gorm:"type:uuid;not null;index"`
	CustomerID           string          `json:"customerId" gorm:"not null;index"`
	Reason               string          `json:"reason" gorm:"size:200;not null"`
	Description          string          `json:"description" gorm:"size:2000;not null"`
	Category             DisputeCategory `json:"category" gorm:"not null"`
	Status               DisputeStatus   `json:"status" gorm:"not null;index"`
	DisputedAmount       Money           `json:"disputedAmount" gorm:"not null"`
	Currency             string          `json:"currency" gorm:"size:3;not null"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
	ResolvedAt           *time.Time      `json:"resolvedAt,omitempty"`
	ResolutionNotes      string          `json:"resolutionNotes,omitempty" gorm:"size:1000"`
	TransactionReference string          `json:"transactionReference,omitempty" gorm:"size:100"`
	MerchantName         string          `json:"merchantName,omitempty" gorm:"size:200"`
}

func (d *Dispute) Active() bool {
	return !d.Status.Terminal()
}

type DisputeFilter struct {
	CustomerID    string
	TransactionID *uuid.UUID
	Status        *DisputeStatus
	Category      *DisputeCategory
	FromDate      *time.Time
	ToDate        *time.Time
	Page          int
	PageSize      int
}

type DisputeStatistics struct {
	TotalDisputes       int64 `json:"totalDisputes"`
	PendingDisputes     int64 `json:"pendingDisputes"`
	UnderReviewDisputes int64 `json:"underReviewDisputes"`
	ResolvedDisputes    int64 `json:"resolvedDisputes"`
	RejectedDisputes    int64 `json:"rejectedDisputes"`
	TotalDisputedAmount Money `json:"totalDisputedAmount"`
	ResolvedAmount      Money `json:"resolvedAmount"`
}
