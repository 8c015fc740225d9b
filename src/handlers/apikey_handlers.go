package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"

	m "qmoi_services/src/models"
)

// APIKeyContextKey carries the key owner's user_id once RequireAPIKey
// has validated the request.
type APIKeyContextKey struct{}

func APIKeyEndpointHandler(ctx context.Context, connPool *m.PGPool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		if !ok {
			fmt.Fprintf(w, "Failed to get validated claims")
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETAPIKeys(ctx, w, r, connPool, claims.RegisteredClaims.Subject)
		case http.MethodPost:
			POSTMintAPIKey(ctx, w, r, connPool, claims.RegisteredClaims.Subject)
		case http.MethodDelete:
			DELETERevokeAPIKey(ctx, w, r, connPool, claims.RegisteredClaims.Subject)
		}
	})
}

func GETAPIKeys(ctx context.Context, w http.ResponseWriter, r *http.Request, connPool *m.PGPool, uid string) {
	var keys []m.APIKey

	query := `SELECT key_id, user_id, label, created_at
				FROM api_keys
				WHERE user_id = (SELECT user_id FROM users WHERE auth_zero_id=$1)
				AND revoked_at IS NULL`

	rows, err := connPool.Pool.Query(ctx, query, uid)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to list API keys")
		log.Printf("Unable to list API keys: %v", err)
		return
	}

	for rows.Next() {
		var key m.APIKey

		err := rows.Scan(&key.KeyID, &key.UserID, &key.Label, &key.CreatedAt)
		if err != nil {
			WriteErrorToWriter(w, "Error: Failed to scan API key")
			log.Printf("Failed to scan API key: %v", err)
			return
		}

		keys = append(keys, key)
	}

	responseBytes, err := json.MarshalIndent(keys, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}

func POSTMintAPIKey(ctx context.Context, w http.ResponseWriter, r *http.Request, connPool *m.PGPool, uid string) {
	label := r.URL.Query().Get("label")
	if label == "" {
		label = "default"
	}

	// The secret is returned exactly once; only its hash is stored.
	secret := uuid.NewString()
	minted := m.MintedAPIKey{Label: label, Secret: secret}

	query := `INSERT INTO api_keys (user_id, label, key_hash)
				VALUES ((SELECT user_id FROM users WHERE auth_zero_id=$1), $2, $3)
				RETURNING key_id, created_at`

	err := connPool.Pool.QueryRow(ctx, query, uid, label, m.HashAPIKey(secret)).Scan(&minted.KeyID, &minted.CreatedAt)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to mint API key")
		log.Printf("Unable to mint API key: %v", err)
		return
	}

	responseBytes, err := json.MarshalIndent(minted, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}

func DELETERevokeAPIKey(ctx context.Context, w http.ResponseWriter, r *http.Request, connPool *m.PGPool, uid string) {
	keyID := r.URL.Query().Get("key_id")

	query := `UPDATE api_keys
				SET revoked_at = (now() AT TIME ZONE 'utc'::text)
				WHERE key_id = $1
				AND user_id = (SELECT user_id FROM users WHERE auth_zero_id=$2)
				AND revoked_at IS NULL`

	status, err := connPool.Pool.Exec(ctx, query, keyID, uid)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to revoke API key")
		log.Printf("Unable to revoke API key: %v", err)
		return
	}
	if status.RowsAffected() < 1 {
		WriteErrorToWriter(w, "Error: API key not found")
		return
	}

	responseBytes, err := json.MarshalIndent("api key revoked", "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}

// RequireAPIKey guards device endpoints with a key minted through
// /apikey, checked by hash against the stored keys.
func RequireAPIKey(ctx context.Context, connPool *m.PGPool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := r.Header.Get("X-QMOI-Key")
		if secret == "" {
			w.WriteHeader(http.StatusUnauthorized)
			WriteErrorToWriter(w, "Error: Missing X-QMOI-Key header")
			return
		}

		var userID string
		query := `SELECT user_id FROM api_keys WHERE key_hash = $1 AND revoked_at IS NULL`
		err := connPool.Pool.QueryRow(ctx, query, m.HashAPIKey(secret)).Scan(&userID)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			WriteErrorToWriter(w, "Error: Invalid API key")
			log.Printf("Rejected API key: %v", err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), APIKeyContextKey{}, userID)))
	})
}
