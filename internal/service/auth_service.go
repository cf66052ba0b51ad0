package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/finport/dispute-portal/internal/domain"
	"github.com/finport/dispute-portal/internal/repository"
	"github.com/finport/dispute-portal/internal/security"
	"github.com/google/uuid"
)

type AuthService struct {
	users      repository.UserRepository
	tokens     repository.RefreshTokenRepository
	tx         repository.TxRunner
	issuer     *security.TokenIssuer
	refreshTTL time.Duration
}

func NewAuthService(users repository.UserRepository, tokens repository.RefreshTokenRepository, tx repository.TxRunner, issuer *security.TokenIssuer, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		tx:         tx,
		issuer:     issuer,
		refreshTTL: refreshTTL,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CustomerID:   NewCustomerID(),
		CreatedAt:    time.Now(),
		IsActive:     true,
	}

	var result *AuthResult
	err = s.tx.InTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		result, err = s.issuePair(ctx, repos.RefreshTokens, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("user registered: %s customer %s", user.Email, user.CustomerID)
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same outcome as a bad password so callers cannot enumerate accounts.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now

	var result *AuthResult
	err = s.tx.InTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		result, err = s.issuePair(ctx, repos.RefreshTokens, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Refresh consumes a refresh token: the presented token is revoked and a
// brand-new pair is issued for the same user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	stored, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !stored.Usable(time.Now()) {
		return nil, domain.ErrInvalidRefreshToken
	}

	var result *AuthResult
	err = s.tx.InTx(ctx, func(repos *repository.Repositories) error {
		stored.IsRevoked = true
		if err := repos.RefreshTokens.Update(ctx, stored); err != nil {
			return err
		}

		user, err := repos.Users.GetByID(ctx, stored.UserID)
		if err != nil {
			return err
		}

		result, err = s.issuePair(ctx, repos.RefreshTokens, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Revoke marks a refresh token revoked. Reports false when the token is
// unknown or was already revoked.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) (bool, error) {
	stored, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRefreshToken) {
			return false, nil
		}
		return false, err
	}
	if stored.IsRevoked {
		return false, nil
	}

	stored.IsRevoked = true
	if err := s.tokens.Update(ctx, stored); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) ValidateAccessToken(token string) (*security.AccessClaims, error) {
	return s.issuer.ValidateAccessToken(token)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) issuePair(ctx context.Context, tokens repository.RefreshTokenRepository, user *domain.User) (*AuthResult, error) {
	accessToken, expiresAt, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := security.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stored := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if err := tokens.Create(ctx, stored); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// NewCustomerID generates a business-facing customer key in the
// CUST<yyyyMMdd><6 char suffix> scheme.
func NewCustomerID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("CUST%s%s", time.Now().UTC().Format("20060102"), suffix)
}
