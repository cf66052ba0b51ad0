package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/finport/dispute-portal/internal/api/middleware"
	"github.com/finport/dispute-portal/internal/domain"
	"github.com/finport/dispute-portal/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type DisputeHandler struct {
	disputeService *service.DisputeService
}

func NewDisputeHandler(disputeService *service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputeService: disputeService}
}

type CreateDisputeRequest struct {
	TransactionID        string       `json:"transactionId"`
	Reason               string       `json:"reason"`
	Description          string       `json:"description"`
	Category             string       `json:"category"`
	DisputedAmount       domain.Money `json:"disputedAmount"`
	Currency             string       `json:"currency"`
	TransactionReference string       `json:"transactionReference"`
	MerchantName         string       `json:"merchantName"`
}

type UpdateDisputeStatusRequest struct {
	Status          string `json:"status"`
	ResolutionNotes string `json:"resolutionNotes"`
}

func (h *DisputeHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter, err := parseDisputeFilter(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.CustomerID = customerID

	result, err := h.disputeService.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *DisputeHandler) Get(w http.ResponseWriter, r *http.Request) {
	dispute, ok := h.ownedDispute(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) GetByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if chi.URLParam(r, "customerId") != customerID {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	disputes, err := h.disputeService.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, disputes)
}

func (h *DisputeHandler) GetByTransaction(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionID, err := uuid.Parse(chi.URLParam(r, "transactionId"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	disputes, err := h.disputeService.ListByTransaction(r.Context(), transactionID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// A transaction's disputes are visible to their owner only.
	owned := make([]*domain.Dispute, 0, len(disputes))
	for _, d := range disputes {
		if d.CustomerID == customerID {
			owned = append(owned, d)
		}
	}

	writeJSON(w, http.StatusOK, owned)
}

func (h *DisputeHandler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}
	if req.Reason == "" || len(req.Reason) > 200 {
		writeMessage(w, http.StatusBadRequest, "Reason is required and must not exceed 200 characters")
		return
	}
	if req.Description == "" || len(req.Description) > 2000 {
		writeMessage(w, http.StatusBadRequest, "Description is required and must not exceed 2000 characters")
		return
	}
	category := domain.DisputeCategory(req.Category)
	if !category.Valid() {
		writeMessage(w, http.StatusBadRequest, "Invalid dispute category")
		return
	}
	if req.DisputedAmount <= 0 {
		writeMessage(w, http.StatusBadRequest, "Disputed amount must be positive")
		return
	}
	if len(req.Currency) != 3 {
		writeMessage(w, http.StatusBadRequest, "Currency must be a 3-letter code")
		return
	}
	if len(req.TransactionReference) > 100 || len(req.MerchantName) > 200 {
		writeMessage(w, http.StatusBadRequest, "Reference or merchant name too long")
		return
	}

	dispute, err := h.disputeService.Create(r.Context(), service.CreateDisputeInput{
		TransactionID:        transactionID,
		CustomerID:           customerID,
		Reason:               req.Reason,
		Description:          req.Description,
		Category:             category,
		DisputedAmount:       req.DisputedAmount,
		Currency:             req.Currency,
		TransactionReference: req.TransactionReference,
		MerchantName:         req.MerchantName,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dispute)
}

func (h *DisputeHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	dispute, ok := h.ownedDispute(w, r)
	if !ok {
		return
	}

	var req UpdateDisputeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status := domain.DisputeStatus(req.Status)
	if !status.Valid() {
		writeMessage(w, http.StatusBadRequest, "Invalid dispute status")
		return
	}
	if len(req.ResolutionNotes) > 1000 {
		writeMessage(w, http.StatusBadRequest, "Resolution notes must not exceed 1000 characters")
		return
	}

	updated, err := h.disputeService.UpdateStatus(r.Context(), dispute.ID, status, req.ResolutionNotes)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *DisputeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	dispute, ok := h.ownedDispute(w, r)
	if !ok {
		return
	}

	if err := h.disputeService.Cancel(r.Context(), dispute.ID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Dispute cancelled")
}

func (h *DisputeHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.disputeService.Statistics(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *DisputeHandler) ownedDispute(w http.ResponseWriter, r *http.Request) (*domain.Dispute, bool) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid dispute ID")
		return nil, false
	}

	dispute, err := h.disputeService.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}

	if dispute.CustomerID != customerID {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	return dispute, true
}

func parseDisputeFilter(r *http.Request) (domain.DisputeFilter, error) {
	q := r.URL.Query()
	filter := domain.DisputeFilter{}

	var err error
	if filter.Page, err = parseIntParam(q.Get("page"), 1); err != nil {
		return filter, err
	}
	if filter.PageSize, err = parseIntParam(q.Get("pageSize"), domain.DefaultPageSize); err != nil {
		return filter, err
	}

	if v := q.Get("transactionId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errInvalidParam("transactionId")
		}
		filter.TransactionID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.DisputeStatus(v)
		if !status.Valid() {
			return filter, errInvalidParam("status")
		}
		filter.Status = &status
	}
	if v := q.Get("category"); v != "" {
		category := domain.DisputeCategory(v)
		if !category.Valid() {
			return filter, errInvalidParam("category")
		}
		filter.Category = &category
	}
	if v := q.Get("fromDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidParam("fromDate")
		}
		filter.FromDate = &t
	}
	if v := q.Get("toDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidParam("toDate")
		}
		filter.ToDate = &t
	}

	return filter, nil
}
