package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"qmoi_services/src/paystore"
)

type PaymentSummary struct {
	UserID  string            `json:"user_id"`
	Total   int64             `json:"total"`
	Records []paystore.Record `json:"records"`
}

func PaymentEndpointHandler(store *paystore.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		if !ok {
			fmt.Fprintf(w, "Failed to get validated claims")
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETPayments(w, r, store, claims.RegisteredClaims.Subject)
		case http.MethodPost:
			POSTPayment(w, r, store, claims.RegisteredClaims.Subject)
		}
	})
}

func GETPayments(w http.ResponseWriter, r *http.Request, store *paystore.Store, uid string) {
	summary := PaymentSummary{UserID: uid}

	for _, record := range store.All() {
		if record.UserID == uid {
			summary.Records = append(summary.Records, record)
		}
	}
	summary.Total = store.TotalFor(uid)

	responseBytes, err := json.MarshalIndent(summary, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}

func POSTPayment(w http.ResponseWriter, r *http.Request, store *paystore.Store, uid string) {
	var record paystore.Record
	err := json.NewDecoder(r.Body).Decode(&record)
	if err != nil {
		WriteErrorToWriter(w, "Error: Could not parse payment body")
		log.Printf("Could not parse payment body: %v", err)
		return
	}
	record.UserID = uid

	stored, err := store.Append(record)
	if err != nil {
		WriteErrorToWriter(w, "Error: Payment could not be recorded")
		log.Printf("Payment could not be recorded: %v", err)
		return
	}

	responseBytes, err := json.MarshalIndent(stored, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}
