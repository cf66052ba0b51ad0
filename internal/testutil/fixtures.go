package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/finport/dispute-portal/internal/domain"
	"github.com/finport/dispute-portal/internal/security"
	"github.com/finport/dispute-portal/internal/service"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email      string
	password   string
	firstName  string
	lastName   string
	customerID string
	active     bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:      fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password:   "testpassword123",
		firstName:  "Test",
		lastName:   "User",
		customerID: service.NewCustomerID(),
		active:     true,
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithCustomerID(customerID string) *UserBuilder {
	b.customerID = customerID
	return b
}

func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// Build creates the user in the database and returns it with the raw password.
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	passwordHash, err := security.HashPassword(b.password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: passwordHash,
		FirstName:    b.firstName,
		LastName:     b.lastName,
		CustomerID:   b.customerID,
		CreatedAt:    time.Now(),
		IsActive:     b.active,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response.
type AuthResponse struct {
	User struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		CustomerID string `json:"customerId"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate registers a user via the API and returns the auth
// response, which carries the generated customer id and token pair.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) *AuthResponse {
	t.Helper()

	reqBody := map[string]string{
		"email":     b.email,
		"password":  b.password,
		"firstName": b.firstName,
		"lastName":  b.lastName,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code registering user: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}
	return &authResp
}

// TransactionBuilder creates test transactions.
type TransactionBuilder struct {
	customerID string
	amount     domain.Money
	category   string
	merchant   string
	txType     domain.TransactionType
	date       time.Time
	disputed   bool
	reference  string
}

func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		customerID: "CUST20240101ABCDEF",
		amount:     domain.MoneyFromFloat(199.99),
		category:   "Shopping",
		merchant:   "Amazon",
		txType:     domain.TransactionDebit,
		date:       time.Now(),
		reference:  fmt.Sprintf("TXN%s", uuid.New().String()[:8]),
	}
}

func (b *TransactionBuilder) WithCustomerID(customerID string) *TransactionBuilder {
	b.customerID = customerID
	return b
}

func (b *TransactionBuilder) WithAmount(amount domain.Money) *TransactionBuilder {
	b.amount = amount
	return b
}

func (b *TransactionBuilder) WithCategory(category string) *TransactionBuilder {
	b.category = category
	return b
}

func (b *TransactionBuilder) WithMerchant(merchant string) *TransactionBuilder {
	b.merchant = merchant
	return b
}

func (b *TransactionBuilder) WithType(txType domain.TransactionType) *TransactionBuilder {
	b.txType = txType
	return b
}

func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.date = date
	return b
}

func (b *TransactionBuilder) Disputed() *TransactionBuilder {
	b.disputed = true
	return b
}

func (b *TransactionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Transaction {
	t.Helper()

	transaction := &domain.Transaction{
		ID:              uuid.New(),
		CustomerID:      b.customerID,
		Description:     fmt.Sprintf("Transaction at %s", b.merchant),
		Amount:          b.amount,
		Currency:        "ZAR",
		Category:        b.category,
		MerchantName:    b.merchant,
		Type:            b.txType,
		Status:          domain.TransactionCompleted,
		TransactionDate: b.date,
		CreatedAt:       time.Now(),
		Reference:       b.reference,
		CardLastFour:    "4242",
		IsDisputed:      b.disputed,
	}

	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	return transaction
}

// DisputeBuilder creates test disputes.
type DisputeBuilder struct {
	transactionID uuid.UUID
	customerID    string
	status        domain.DisputeStatus
	category      domain.DisputeCategory
	amount        domain.Money
	createdAt     time.Time
}

func NewDisputeBuilder() *DisputeBuilder {
	return &DisputeBuilder{
		transactionID: uuid.New(),
		customerID:    "CUST20240101ABCDEF",
		status:        domain.DisputePending,
		category:      domain.CategoryUnauthorizedTransaction,
		amount:        domain.MoneyFromFloat(150.00),
		createdAt:     time.Now(),
	}
}

func (b *DisputeBuilder) WithTransactionID(id uuid.UUID) *DisputeBuilder {
	b.transactionID = id
	return b
}

func (b *DisputeBuilder) WithCustomerID(customerID string) *DisputeBuilder {
	b.customerID = customerID
	return b
}

func (b *DisputeBuilder) WithStatus(status domain.DisputeStatus) *DisputeBuilder {
	b.status = status
	return b
}

func (b *DisputeBuilder) WithAmount(amount domain.Money) *DisputeBuilder {
	b.amount = amount
	return b
}

func (b *DisputeBuilder) WithCreatedAt(createdAt time.Time) *DisputeBuilder {
	b.createdAt = createdAt
	return b
}

func (b *DisputeBuilder) Build(t *testing.T, db *gorm.DB) *domain.Dispute {
	t.Helper()

	dispute := &domain.Dispute{
		ID:             uuid.New(),
		TransactionID:  b.transactionID,
		CustomerID:     b.customerID,
		Reason:         "Unrecognised charge",
		Description:    "I do not recognise this transaction on my statement",
		Category:       b.category,
		Status:         b.status,
		DisputedAmount: b.amount,
		Currency:       "ZAR",
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.createdAt,
	}
	if b.status.Terminal() {
		resolved := b.createdAt.Add(time.Hour)
		dispute.ResolvedAt = &resolved
	}

	if err := db.Create(dispute).Error; err != nil {
		t.Fatalf("failed to create dispute: %v", err)
	}
	return dispute
}
