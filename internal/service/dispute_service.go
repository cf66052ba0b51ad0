package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/finport/dispute-portal/internal/domain"
	"github.com/finport/dispute-portal/internal/repository"
	"github.com/google/uuid"
)

type DisputeService struct {
	disputes      repository.DisputeRepository
	notifier      TransactionNotifier
	notifyTimeout time.Duration
}

func NewDisputeService(disputes repository.DisputeRepository, notifier TransactionNotifier, notifyTimeout time.Duration) *DisputeService {
	return &DisputeService{
		disputes:      disputes,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
	}
}

type CreateDisputeInput struct {
	TransactionID        uuid.UUID
	CustomerID           string
	Reason               string
	Description          string
	Category             domain.DisputeCategory
	DisputedAmount       domain.Money
	Currency             string
	TransactionReference string
	MerchantName         string
}

func (s *DisputeService) List(ctx context.Context, filter domain.DisputeFilter) (*domain.PagedResult[domain.Dispute], error) {
	return s.disputes.List(ctx, filter)
}

func (s *DisputeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	return s.disputes.GetByID(ctx, id)
}

func (s *DisputeService) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Dispute, error) {
	return s.disputes.ListByCustomer(ctx, customerID)
}

func (s *DisputeService) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*domain.Dispute, error) {
	return s.disputes.ListByTransaction(ctx, transactionID)
}

// Create opens a dispute for a transaction. At most one active dispute may
// exist per transaction; a partial unique index backs the pre-check, so a
// concurrent duplicate fails on insert rather than slipping through.
func (s *DisputeService) Create(ctx context.Context, input CreateDisputeInput) (*domain.Dispute, error) {
	_, err := s.disputes.FindActiveByTransaction(ctx, input.TransactionID)
	if err == nil {
		return nil, domain.ErrActiveDisputeExists
	}
	if !errors.Is(err, domain.ErrDisputeNotFound) {
		return nil, err
	}

	now := time.Now()
	dispute := &domain.Dispute{
		ID:                   uuid.New(),
		TransactionID:        input.TransactionID,
		CustomerID:           input.CustomerID,
		Reason:               input.Reason,
		Description:          input.Description,
		Category:             input.Category,
		Status:               domain.DisputePending,
		DisputedAmount:       input.DisputedAmount,
		Currency:             input.Currency,
		CreatedAt:            now,
		UpdatedAt:            now,
		TransactionReference: input.TransactionReference,
		MerchantName:         input.MerchantName,
	}

	if err := s.disputes.Create(ctx, dispute); err != nil {
		if isActiveDisputeConflict(err) {
			return nil, domain.ErrActiveDisputeExists
		}
		return nil, err
	}

	s.notifyAsync(dispute.TransactionID, true)

	log.Printf("created dispute %s for transaction %s", dispute.ID, dispute.TransactionID)
	return dispute, nil
}

// UpdateStatus moves a dispute along the lifecycle. Only the legal edges of
// the state machine are accepted. Every terminal outcome clears the
// transaction's disputed flag.
func (s *DisputeService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolutionNotes string) (*domain.Dispute, error) {
	dispute, err := s.disputes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !dispute.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	dispute.Status = status
	dispute.UpdatedAt = now
	if resolutionNotes != "" {
		dispute.ResolutionNotes = resolutionNotes
	}
	if status.Terminal() {
		dispute.ResolvedAt = &now
	}

	if err := s.disputes.Update(ctx, dispute); err != nil {
		return nil, err
	}

	if status.Terminal() {
		s.notifyAsync(dispute.TransactionID, false)
	}

	log.Printf("updated dispute %s status to %s", id, status)
	return dispute, nil
}

// Cancel closes a dispute from any non-terminal state. Resolved and rejected
// disputes cannot be cancelled.
func (s *DisputeService) Cancel(ctx context.Context, id uuid.UUID) error {
	dispute, err := s.disputes.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if dispute.Status == domain.DisputeResolved || dispute.Status == domain.DisputeRejected {
		return domain.ErrDisputeClosed
	}

	now := time.Now()
	dispute.Status = domain.DisputeCancelled
	dispute.UpdatedAt = now
	dispute.ResolvedAt = &now

	if err := s.disputes.Update(ctx, dispute); err != nil {
		return err
	}

	s.notifyAsync(dispute.TransactionID, false)

	log.Printf("cancelled dispute %s", id)
	return nil
}

func (s *DisputeService) Statistics(ctx context.Context, customerID string) (*domain.DisputeStatistics, error) {
	return s.disputes.Statistics(ctx, customerID)
}

// notifyAsync propagates the disputed flag on a detached, bounded-timeout
// context. Failure must never fail the primary operation; it is logged only.
func (s *DisputeService) notifyAsync(transactionID uuid.UUID, disputed bool) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		var err error
		if disputed {
			err = s.notifier.MarkDisputed(ctx, transactionID)
		} else {
			err = s.notifier.ClearDisputed(ctx, transactionID)
		}
		if err != nil {
			log.Printf("ERROR [disputeService] failed to set disputed=%t on transaction %s: %v",
				disputed, transactionID, err)
		}
	}()
}

func isActiveDisputeConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "idx_disputes_active_txn")
}
