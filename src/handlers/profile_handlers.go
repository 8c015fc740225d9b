package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/jackc/pgx/v5"

	"qmoi_services/src/friendship"
	m "qmoi_services/src/models"
)

func ProfileEndpointHandler(ctx context.Context, connPool *m.PGPool, core *friendship.Core) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		if !ok {
			log.Printf("Failed to get validated claims")
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETRelationshipProfile(ctx, w, r, connPool, core, claims.RegisteredClaims.Subject)
		}
	})
}

func GETRelationshipProfile(ctx context.Context, w http.ResponseWriter, r *http.Request, connPool *m.PGPool, core *friendship.Core, authZeroID string) {
	var userID string
	userQuery := `SELECT user_id FROM users WHERE auth_zero_id=$1`
	err := connPool.Pool.QueryRow(ctx, userQuery, authZeroID).Scan(&userID)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to lookup requesting user")
		log.Printf("Unable to lookup requesting user: %v", err)
		return
	}

	profile, ok := core.Snapshot(userID)
	if !ok {
		// Not warmed in memory yet; fall back to the persisted snapshot.
		var facts []byte
		profileQuery := `SELECT facts FROM profiles WHERE user_id=$1`
		err := connPool.Pool.QueryRow(ctx, profileQuery, userID).Scan(&facts)
		if err != nil {
			if err == pgx.ErrNoRows {
				var errorString string = fmt.Sprintln("Error: Profile does not exist")
				responseBytes := []byte(errorString)

				w.Header().Set("Content-Type", "text/plain")
				w.Write(responseBytes)
				return
			}
			WriteErrorToWriter(w, "Error: Unable to fetch profile")
			log.Printf("Unable to fetch profile: %v", err)
			return
		}

		err = json.Unmarshal(facts, &profile)
		if err != nil {
			WriteErrorToWriter(w, "Error: Failed to parse stored profile")
			log.Printf("Failed to parse stored profile: %v", err)
			return
		}
		core.Restore(profile)
	}

	responseBytes, err := json.MarshalIndent(profile, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}
