package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/finport/dispute-portal/internal/api/middleware"
	"github.com/finport/dispute-portal/internal/domain"
	"github.com/finport/dispute-portal/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// List returns the caller's transactions. The customer scope always comes
// from the token, never from the query string.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.CustomerID = customerID

	result, err := h.transactionService.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	transaction, ok := h.ownedTransaction(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) GetByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if chi.URLParam(r, "customerId") != customerID {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	transactions, err := h.transactionService.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) MarkDisputed(w http.ResponseWriter, r *http.Request) {
	transaction, ok := h.ownedTransaction(w, r)
	if !ok {
		return
	}

	if err := h.transactionService.MarkDisputed(r.Context(), transaction.ID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Transaction marked as disputed")
}

func (h *TransactionHandler) UnmarkDisputed(w http.ResponseWriter, r *http.Request) {
	transaction, ok := h.ownedTransaction(w, r)
	if !ok {
		return
	}

	if err := h.transactionService.UnmarkDisputed(r.Context(), transaction.ID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Transaction dispute removed")
}

func (h *TransactionHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.transactionService.Categories(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func (h *TransactionHandler) Seed(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactions, err := h.transactionService.SeedForCustomer(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

// InternalMarkDisputed and InternalUnmarkDisputed serve the dispute
// service's fire-and-forget notifier in a split deployment. The /internal
// route group is never exposed through the gateway.
func (h *TransactionHandler) InternalMarkDisputed(w http.ResponseWriter, r *http.Request) {
	h.internalSetDisputed(w, r, true)
}

func (h *TransactionHandler) InternalUnmarkDisputed(w http.ResponseWriter, r *http.Request) {
	h.internalSetDisputed(w, r, false)
}

func (h *TransactionHandler) internalSetDisputed(w http.ResponseWriter, r *http.Request, disputed bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	var opErr error
	if disputed {
		opErr = h.transactionService.MarkDisputed(r.Context(), id)
	} else {
		opErr = h.transactionService.UnmarkDisputed(r.Context(), id)
	}
	if opErr != nil {
		writeDomainError(w, r, opErr)
		return
	}

	writeMessage(w, http.StatusOK, "OK")
}

// ownedTransaction loads the path transaction and rejects callers that do
// not own it.
func (h *TransactionHandler) ownedTransaction(w http.ResponseWriter, r *http.Request) (*domain.Transaction, bool) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid transaction ID")
		return nil, false
	}

	transaction, err := h.transactionService.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}

	if transaction.CustomerID != customerID {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	return transaction, true
}

func parseTransactionFilter(r *http.Request) (domain.TransactionFilter, error) {
	q := r.URL.Query()
	filter := domain.TransactionFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}

	var err error
	if filter.Page, err = parseIntParam(q.Get("page"), 1); err != nil {
		return filter, err
	}
	if filter.PageSize, err = parseIntParam(q.Get("pageSize"), domain.DefaultPageSize); err != nil {
		return filter, err
	}

	if v := q.Get("fromDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &t
	}
	if v := q.Get("toDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &t
	}
	if v := q.Get("type"); v != "" {
		txType := domain.TransactionType(v)
		if !txType.Valid() {
			return filter, errInvalidParam("type")
		}
		filter.Type = &txType
	}
	if v := q.Get("minAmount"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errInvalidParam("minAmount")
		}
		amount := domain.MoneyFromFloat(f)
		filter.MinAmount = &amount
	}
	if v := q.Get("maxAmount"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errInvalidParam("maxAmount")
		}
		amount := domain.MoneyFromFloat(f)
		filter.MaxAmount = &amount
	}
	if v := q.Get("disputed"); v != "" {
		disputed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errInvalidParam("disputed")
		}
		filter.Disputed = &disputed
	}

	return filter, nil
}
