package api

import (
	"net/http"

	"github.com/finport/dispute-portal/internal/api/handlers"
	"github.com/finport/dispute-portal/internal/api/middleware"
	"github.com/finport/dispute-portal/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	transactionHandler := handlers.NewTransactionHandler(services.Transaction)
	disputeHandler := handlers.NewDisputeHandler(services.Dispute)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/revoke", authHandler.Revoke)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Get("/validate", authHandler.Validate)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/categories", transactionHandler.Categories)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/", transactionHandler.List)
				r.Get("/{id}", transactionHandler.Get)
				r.Get("/customer/{customerId}", transactionHandler.GetByCustomer)
				r.Put("/{id}/dispute", transactionHandler.MarkDisputed)
				r.Delete("/{id}/dispute", transactionHandler.UnmarkDisputed)
				r.Post("/seed", transactionHandler.Seed)
			})
		})

		r.Route("/disputes", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Get("/", disputeHandler.List)
			r.Get("/statistics", disputeHandler.Statistics)
			r.Get("/{id}", disputeHandler.Get)
			r.Get("/customer/{customerId}", disputeHandler.GetByCustomer)
			r.Get("/transaction/{transactionId}", disputeHandler.GetByTransaction)
			r.Post("/", disputeHandler.Create)
			r.Put("/{id}/status", disputeHandler.UpdateStatus)
			r.Post("/{id}/cancel", disputeHandler.Cancel)
		})

		// Service-to-service flag endpoints for split deployments. Not
		// routed through the gateway.
		r.Route("/internal/transactions", func(r chi.Router) {
			r.Put("/{id}/dispute", transactionHandler.InternalMarkDisputed)
			r.Delete("/{id}/dispute", transactionHandler.InternalUnmarkDisputed)
		})
	})

	return r
}
