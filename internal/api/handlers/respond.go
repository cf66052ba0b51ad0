package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/finport/dispute-portal/internal/domain"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeDomainError maps domain errors to status codes. Anything unmapped is
// reported as a generic failure carrying the request id as correlation id;
// internal detail stays in the log.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidRefreshToken):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrDisputeNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrActiveDisputeExists):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrDisputeClosed):
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	default:
		correlationID := chiMiddleware.GetReqID(r.Context())
		log.Printf("ERROR [%s] %s %s: %v", correlationID, r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message":       "Internal server error",
			"correlationId": correlationID,
		})
	}
}
