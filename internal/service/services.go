package service

import (
	"github.com/finport/dispute-portal/internal/config"
	"github.com/finport/dispute-portal/internal/repository"
	"github.com/finport/dispute-portal/internal/security"
)

type Services struct {
	Auth        *AuthService
	Transaction *TransactionService
	Dispute     *DisputeService
}

func NewServices(repos *repository.Repositories, tx repository.TxRunner, cfg *config.Config) *Services {
	issuer := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenTTL())

	transactionService := NewTransactionService(repos.Transactions)

	var notifier TransactionNotifier
	if cfg.TransactionServiceURL != "" {
		notifier = NewHTTPNotifier(cfg.TransactionServiceURL, cfg.NotifyTimeout)
	} else {
		notifier = NewLocalNotifier(transactionService)
	}

	return &Services{
		Auth:        NewAuthService(repos.Users, repos.RefreshTokens, tx, issuer, cfg.RefreshTokenTTL()),
		Transaction: transactionService,
		Dispute:     NewDisputeService(repos.Disputes, notifier, cfg.NotifyTimeout),
	}
}
