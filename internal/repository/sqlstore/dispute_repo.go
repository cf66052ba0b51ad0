package sqlstore

import (
	"context"
	"errors"

	"github.com/finport/dispute-portal/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type disputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) *disputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Create(ctx context.Context, dispute *domain.Dispute) error {
	return r.db.WithContext(ctx).Create(dispute).Error
}

func (r *disputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	var dispute domain.Dispute
	err := r.db.WithContext(ctx).First(&dispute, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *disputeRepository) List(ctx context.Context, filter domain.DisputeFilter) (*domain.PagedResult[domain.Dispute], error) {
	page, pageSize := domain.NormalizePage(filter.Page, filter.PageSize)

	query := r.db.WithContext(ctx).Model(&domain.Dispute{})

	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.TransactionID != nil {
		query = query.Where("transaction_id = ?", *filter.TransactionID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, err
	}

	var items []domain.Dispute
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return domain.NewPagedResult(items, totalCount, page, pageSize), nil
}

func (r *disputeRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Dispute, error) {
	var disputes []*domain.Dispute
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&disputes).Error
	if err != nil {
		return nil, err
	}
	return disputes, nil
}

func (r *disputeRepository) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*domain.Dispute, error) {
	var disputes []*domain.Dispute
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at DESC").
		Find(&disputes).Error
	if err != nil {
		return nil, err
	}
	return disputes, nil
}

func (r *disputeRepository) FindActiveByTransaction(ctx context.Context, transactionID uuid.UUID) (*domain.Dispute, error) {
	var dispute domain.Dispute
	err := r.db.WithContext(ctx).
		First(&dispute, "transaction_id = ? AND status NOT IN ?",
			transactionID,
			[]domain.DisputeStatus{domain.DisputeResolved, domain.DisputeRejected, domain.DisputeCancelled}).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *disputeRepository) Update(ctx context.Context, dispute *domain.Dispute) error {
	return r.db.WithContext(ctx).Save(dispute).Error
}

func (r *disputeRepository) Statistics(ctx context.Context, customerID string) (*domain.DisputeStatistics, error) {
	type statusRow struct {
		Status domain.DisputeStatus
		Count  int64
		Total  int64
	}

	query := r.db.WithContext(ctx).
		Model(&domain.Dispute{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(disputed_amount), 0) AS total").
		Group("status")
	if customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var rows []statusRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &domain.DisputeStatistics{}
	for _, row := range rows {
		stats.TotalDisputes += row.Count
		stats.TotalDisputedAmount += domain.Money(row.Total)

		switch row.Status {
		case domain.DisputePending:
			stats.PendingDisputes = row.Count
		case domain.DisputeUnderReview:
			stats.UnderReviewDisputes = row.Count
		case domain.DisputeResolved:
			stats.ResolvedDisputes = row.Count
			stats.ResolvedAmount = domain.Money(row.Total)
		case domain.DisputeRejected:
			stats.RejectedDisputes = row.Count
		}
	}
	return stats, nil
}
