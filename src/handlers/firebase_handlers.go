package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"firebase.google.com/go/v4/messaging"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	m "qmoi_services/src/models"
)

func FirebaseHandlers(connPool *m.PGPool, ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		if !ok {
			log.Printf("Failed to get validated claims")
			return
		}

		switch r.Method {
		case http.MethodPut:
			switch r.URL.Path {
			case "/fcm":
				PUTFirebaseToken(w, r, ctx, connPool, claims.RegisteredClaims.Subject)
			}
		}

	})
}

func PUTFirebaseToken(w http.ResponseWriter, r *http.Request, context context.Context, connPool *m.PGPool, authZeroID string) {
	token := r.URL.Query().Get("token")
	deviceId := r.URL.Query().Get("device_id")

	query := `INSERT INTO firebase_tokens (user_id, token, device_id)
				VALUES ((SELECT user_id FROM users WHERE auth_zero_id=$1), $2, $3)
				ON CONFLICT (user_id,device_id)
				DO UPDATE SET token = EXCLUDED.token,  updated_at = (now() AT TIME ZONE 'utc'::text)`

	_, err := connPool.Pool.Exec(context, query, authZeroID, token, deviceId)
	if err != nil {
		log.Printf("Failed to insert firebase token: %v", err)
	}

	responseBytes := []byte("updated token - success")

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)

}

// SendCheckInToUID pushes a check-in nudge to every registered device
// of a user whose messages crossed the high stress threshold.
func SendCheckInToUID(context context.Context, connPool *m.PGPool, messagingClient *messaging.Client, notification m.CheckInNotification) error {
	var tokens []string

	tokenQuery := `SELECT token FROM firebase_tokens WHERE user_id = $1`

	rows, err := connPool.Pool.Query(context, tokenQuery, notification.UserID)
	if err != nil {
		log.Print(err)
	}

	for rows.Next() {
		var token string

		err = rows.Scan(&token)
		if err != nil {
			log.Print(err)
		}

		tokens = append(tokens, token)
	}

	if len(tokens) == 0 {
		return nil
	}

	fcmNotification := messaging.Notification{
		Title: "Checking in on you",
		Body:  fmt.Sprintf("Hey %v, today sounded heavy. Want to talk for a minute?", notification.FirstName),
	}

	message := messaging.MulticastMessage{
		Data:         notification.FirebaseToMap(),
		Tokens:       tokens,
		Notification: &fcmNotification,
	}

	_, err = messagingClient.SendEachForMulticast(context, &message)
	if err != nil {
		return err
	}

	return nil
}
