package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// TransactionNotifier propagates dispute lifecycle changes to the
// transaction ledger's disputed flag. Both operations are idempotent so a
// best-effort, at-least-once caller is safe.
type TransactionNotifier interface {
	MarkDisputed(ctx context.Context, transactionID uuid.UUID) error
	ClearDisputed(ctx context.Context, transactionID uuid.UUID) error
}

// localNotifier is the single-binary default: it calls the transaction
// service in process.
type localNotifier struct {
	transactions *TransactionService
}

func NewLocalNotifier(transactions *TransactionService) TransactionNotifier {
	return &localNotifier{transactions: transactions}
}

func (n *localNotifier) MarkDisputed(ctx context.Context, transactionID uuid.UUID) error {
	return n.transactions.MarkDisputed(ctx, transactionID)
}

func (n *localNotifier) ClearDisputed(ctx context.Context, transactionID uuid.UUID) error {
	return n.transactions.UnmarkDisputed(ctx, transactionID)
}

// httpNotifier targets a separately deployed transaction service over its
// internal flag endpoints. The client timeout bounds every call.
type httpNotifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPNotifier(baseURL string, timeout time.Duration) TransactionNotifier {
	return &httpNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (n *httpNotifier) MarkDisputed(ctx context.Context, transactionID uuid.UUID) error {
	return n.send(ctx, http.MethodPut, transactionID)
}

func (n *httpNotifier) ClearDisputed(ctx context.Context, transactionID uuid.UUID) error {
	return n.send(ctx, http.MethodDelete, transactionID)
}

func (n *httpNotifier) send(ctx context.Context, method string, transactionID uuid.UUID) error {
	url := fmt.Sprintf("%s/api/v1/internal/transactions/%s/dispute", n.baseURL, transactionID)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("transaction service returned status %d", resp.StatusCode)
	}
	return nil
}
