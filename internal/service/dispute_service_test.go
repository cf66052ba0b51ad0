package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/finport/dispute-portal/internal/domain"
	"github.com/finport/dispute-portal/internal/repository/sqlstore"
	"github.com/finport/dispute-portal/internal/service"
	"github.com/finport/dispute-portal/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDisputeFixture(t *testing.T) (*service.Services, *testutil.TestDB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	repos := sqlstore.NewRepositories(db.DB)
	services := service.NewServices(repos, sqlstore.NewTxRunner(db.DB), testutil.TestConfig())
	return services, db
}

func disputeInput(txn *domain.Transaction) service.CreateDisputeInput {
	return service.CreateDisputeInput{
		TransactionID:        txn.ID,
		CustomerID:           txn.CustomerID,
		Reason:               "Unrecognised charge",
		Description:          "I did not make this purchase",
		Category:             domain.CategoryUnauthorizedTransaction,
		DisputedAmount:       txn.Amount,
		Currency:             txn.Currency,
		TransactionReference: txn.Reference,
		MerchantName:         txn.MerchantName,
	}
}

// waitDisputedFlag blocks until the asynchronous notifier has set the
// transaction's disputed flag to want.
func waitDisputedFlag(t *testing.T, services *service.Services, txnID uuid.UUID, want bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		got, err := services.Transaction.GetByID(context.Background(), txnID)
		return err == nil && got.IsDisputed == want
	}, 2*time.Second, 10*time.Millisecond, "disputed flag should become %t", want)
}

func TestDisputeServiceCreate(t *testing.T) {
	services, db := newDisputeFixture(t)
	ctx := context.Background()

	t.Run("opens a pending dispute and flags the transaction", func(t *testing.T) {
		txn := testutil.NewTransactionBuilder().Build(t, db.DB)

		dispute, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)

		assert.Equal(t, domain.DisputePending, dispute.Status)
		assert.Equal(t, txn.ID, dispute.TransactionID)
		assert.Nil(t, dispute.ResolvedAt)

		// The flag is propagated asynchronously.
		waitDisputedFlag(t, services, txn.ID, true)
	})

	t.Run("rejects a second active dispute on the same transaction", func(t *testing.T) {
		txn := testutil.NewTransactionBuilder().Build(t, db.DB)

		_, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)

		_, err = services.Dispute.Create(ctx, disputeInput(txn))
		assert.ErrorIs(t, err, domain.ErrActiveDisputeExists)
	})

	t.Run("allows a new dispute once the previous one is terminal", func(t *testing.T) {
		txn := testutil.NewTransactionBuilder().Build(t, db.DB)

		first, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)
		require.NoError(t, services.Dispute.Cancel(ctx, first.ID))

		second, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestDisputeServiceUpdateStatus(t *testing.T) {
	services, db := newDisputeFixture(t)
	ctx := context.Background()

	t.Run("walks the happy path to resolved", func(t *testing.T) {
		txn := testutil.NewTransactionBuilder().Build(t, db.DB)
		dispute, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)
		waitDisputedFlag(t, services, txn.ID, true)

		dispute, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeUnderReview, "")
		require.NoError(t, err)
		assert.Equal(t, domain.DisputeUnderReview, dispute.Status)
		assert.Nil(t, dispute.ResolvedAt)

		dispute, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeAwaitingDocuments, "")
		require.NoError(t, err)

		dispute, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeResolved, "refund issued")
		require.NoError(t, err)
		assert.Equal(t, domain.DisputeResolved, dispute.Status)
		assert.Equal(t, "refund issued", dispute.ResolutionNotes)
		require.NotNil(t, dispute.ResolvedAt)

		// Resolution clears the disputed flag.
		waitDisputedFlag(t, services, txn.ID, false)
	})

	t.Run("rejection also clears the disputed flag", func(t *testing.T) {
		txn := testutil.NewTransactionBuilder().Build(t, db.DB)
		dispute, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)
		waitDisputedFlag(t, services, txn.ID, true)

		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeUnderReview, "")
		require.NoError(t, err)
		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeRejected, "insufficient evidence")
		require.NoError(t, err)

		waitDisputedFlag(t, services, txn.ID, false)
	})

	t.Run("rejects illegal transitions", func(t *testing.T) {
		txn := testutil.NewTransactionBuilder().Build(t, db.DB)
		dispute, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)

		// Pending cannot jump straight to resolved.
		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeResolved, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeUnderReview, "")
		require.NoError(t, err)
		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeResolved, "")
		require.NoError(t, err)

		// Terminal states admit no further transitions.
		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputePending, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeUnderReview, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("unknown dispute", func(t *testing.T) {
		_, err := services.Dispute.UpdateStatus(ctx, uuid.New(), domain.DisputeUnderReview, "")
		assert.ErrorIs(t, err, domain.ErrDisputeNotFound)
	})
}

func TestDisputeServiceCancel(t *testing.T) {
	services, db := newDisputeFixture(t)
	ctx := context.Background()

	t.Run("cancels from pending", func(t *testing.T) {
		txn := testutil.NewTransactionBuilder().Build(t, db.DB)
		dispute, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)
		waitDisputedFlag(t, services, txn.ID, true)

		require.NoError(t, services.Dispute.Cancel(ctx, dispute.ID))

		got, err := services.Dispute.GetByID(ctx, dispute.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DisputeCancelled, got.Status)
		assert.NotNil(t, got.ResolvedAt)

		waitDisputedFlag(t, services, txn.ID, false)
	})

	t.Run("cancels from awaiting documents", func(t *testing.T) {
		txn := testutil.NewTransactionBuilder().Build(t, db.DB)
		dispute, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)

		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeUnderReview, "")
		require.NoError(t, err)
		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeAwaitingDocuments, "")
		require.NoError(t, err)

		require.NoError(t, services.Dispute.Cancel(ctx, dispute.ID))
	})

	t.Run("refuses to cancel a resolved dispute", func(t *testing.T) {
		txn := testutil.NewTransactionBuilder().Build(t, db.DB)
		dispute, err := services.Dispute.Create(ctx, disputeInput(txn))
		require.NoError(t, err)

		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeUnderReview, "")
		require.NoError(t, err)
		_, err = services.Dispute.UpdateStatus(ctx, dispute.ID, domain.DisputeRejected, "")
		require.NoError(t, err)

		err = services.Dispute.Cancel(ctx, dispute.ID)
		assert.ErrorIs(t, err, domain.ErrDisputeClosed)

		got, err := services.Dispute.GetByID(ctx, dispute.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DisputeRejected, got.Status, "status must not change")
	})
}

func TestDisputeServiceStatistics(t *testing.T) {
	services, db := newDisputeFixture(t)
	ctx := context.Background()

	const cust1 = "CUST20240101AAAAAA"
	const cust2 = "CUST20240101BBBBBB"

	testutil.NewDisputeBuilder().WithCustomerID(cust1).
		WithStatus(domain.DisputePending).WithAmount(domain.MoneyFromFloat(100)).Build(t, db.DB)
	testutil.NewDisputeBuilder().WithCustomerID(cust1).
		WithStatus(domain.DisputeUnderReview).WithAmount(domain.MoneyFromFloat(250.50)).Build(t, db.DB)
	testutil.NewDisputeBuilder().WithCustomerID(cust1).
		WithStatus(domain.DisputeRejected).WithAmount(domain.MoneyFromFloat(75)).Build(t, db.DB)
	testutil.NewDisputeBuilder().WithCustomerID(cust2).
		WithStatus(domain.DisputeResolved).WithAmount(domain.MoneyFromFloat(999)).Build(t, db.DB)

	stats, err := services.Dispute.Statistics(ctx, cust1)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalDisputes)
	assert.Equal(t, int64(1), stats.PendingDisputes)
	assert.Equal(t, int64(1), stats.UnderReviewDisputes)
	assert.Equal(t, int64(0), stats.ResolvedDisputes)
	assert.Equal(t, int64(1), stats.RejectedDisputes)
	assert.Equal(t, domain.MoneyFromFloat(425.50), stats.TotalDisputedAmount)
	assert.Equal(t, domain.Money(0), stats.ResolvedAmount)

	stats2, err := services.Dispute.Statistics(ctx, cust2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats2.TotalDisputes)
	assert.Equal(t, int64(1), stats2.ResolvedDisputes)
	assert.Equal(t, domain.MoneyFromFloat(999), stats2.ResolvedAmount)

	empty, err := services.Dispute.Statistics(ctx, "CUST20240101CCCCCC")
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalDisputes)

	// Empty customer id aggregates over everyone.
	global, err := services.Dispute.Statistics(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), global.TotalDisputes)
	assert.Equal(t, domain.MoneyFromFloat(1424.50), global.TotalDisputedAmount)
}
