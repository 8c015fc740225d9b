package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"firebase.google.com/go/v4/messaging"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/jackc/pgx/v5"
	"github.com/opensearch-project/opensearch-go"
	"github.com/redis/go-redis/v9"

	"qmoi_services/src/friendship"
	"qmoi_services/src/inits"
	m "qmoi_services/src/models"
)

// checkInStressLevel is the stress level at which a supportive reply is
// escalated to a device check-in push.
const checkInStressLevel = 8

func ChatEndpointHandler(ctx context.Context, connPool *m.PGPool, rdb *redis.Client, searchClient *opensearch.Client, messagingClient *messaging.Client, core *friendship.Core) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		if !ok {
			fmt.Fprintf(w, "Failed to get validated claims")
			return
		}

		switch r.Method {
		case http.MethodPost:
			POSTChatMessage(ctx, w, r, connPool, rdb, searchClient, messagingClient, core, claims.RegisteredClaims.Subject)
		case http.MethodGet:
			switch r.URL.Path {
			case "/chat/history":
				GETChatHistory(ctx, w, r, connPool, claims.RegisteredClaims.Subject)
			}
		}
	})
}

func POSTChatMessage(ctx context.Context, w http.ResponseWriter, r *http.Request, connPool *m.PGPool, rdb *redis.Client, searchClient *opensearch.Client, messagingClient *messaging.Client, core *friendship.Core, authZeroID string) {
	var chatRequest m.ChatRequest
	err := json.NewDecoder(r.Body).Decode(&chatRequest)
	if err != nil {
		WriteErrorToWriter(w, "Error: Could not parse chat request body")
		log.Printf("Could not parse chat request body: %v", err)
		return
	}

	var userID string
	var firstName string
	userQuery := `SELECT user_id, first_name FROM users WHERE auth_zero_id=$1`
	err = connPool.Pool.QueryRow(ctx, userQuery, authZeroID).Scan(&userID, &firstName)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to lookup requesting user")
		log.Printf("Unable to lookup requesting user: %v", err)
		return
	}

	if _, ok := core.Snapshot(userID); !ok {
		// The core may have missed its warm start; pull the persisted
		// snapshot before observing the new message so an established
		// relationship is not reset to stranger.
		var storedFacts []byte
		profileQuery := `SELECT facts FROM profiles WHERE user_id=$1`
		err := connPool.Pool.QueryRow(ctx, profileQuery, userID).Scan(&storedFacts)
		if err != nil {
			if err != pgx.ErrNoRows {
				log.Printf("Unable to fetch stored profile: %v", err)
			}
		} else {
			var stored friendship.Profile
			err = json.Unmarshal(storedFacts, &stored)
			if err != nil {
				log.Printf("Failed to parse stored profile: %v", err)
			} else {
				core.Restore(stored)
			}
		}
	}

	reply, err := core.Respond(userID, chatRequest.Message)
	if err != nil {
		WriteErrorToWriter(w, "Error: Could not generate reply")
		log.Printf("Could not generate reply: %v", err)
		return
	}

	message := m.ChatMessage{
		UserID:        userID,
		Body:          chatRequest.Message,
		Emotion:       reply.State.PrimaryEmotion,
		Intensity:     reply.State.Intensity,
		StressLevel:   reply.State.StressLevel,
		SupportNeeded: reply.State.SupportNeeded,
	}

	insertMessageQuery := `INSERT INTO messages (user_id, body, emotion, intensity, stress_level, support_needed)
							VALUES ($1, $2, $3, $4, $5, $6)
							RETURNING message_id, created_at`
	upsertProfileQuery := `INSERT INTO profiles (user_id, facts, updated_at)
							VALUES ($1, $2, (now() AT TIME ZONE 'utc'::text))
							ON CONFLICT (user_id)
							DO UPDATE SET facts = EXCLUDED.facts, updated_at = (now() AT TIME ZONE 'utc'::text)`

	batch := &pgx.Batch{}
	batch.Queue(insertMessageQuery, message.UserID, message.Body, message.Emotion, message.Intensity, message.StressLevel, message.SupportNeeded)

	// A blank message leaves the profile untouched, so there may be no
	// snapshot to persist; upserting the zero value would clobber real
	// stored facts.
	snapshot, snapshotOK := core.Snapshot(userID)
	if snapshotOK {
		facts, err := json.Marshal(snapshot)
		if err != nil {
			log.Panic(err)
			return
		}
		batch.Queue(upsertProfileQuery, message.UserID, facts)
	}
	batchResults := connPool.Pool.SendBatch(ctx, batch)
	defer func() {
		err := batchResults.Close()
		if err != nil {
			log.Printf("%v", err)
			return
		}
	}()

	err = batchResults.QueryRow().Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to store chat message")
		log.Printf("Unable to store chat message: %v", err)
		return
	}

	if snapshotOK {
		_, err = batchResults.Exec()
		if err != nil {
			WriteErrorToWriter(w, "Error: Unable to store profile snapshot")
			log.Printf("Unable to store profile snapshot: %v", err)
			return
		}
	}

	// Index the message for /search. Search lags rather than failing the chat.
	err = inits.IndexChatMessage(ctx, searchClient, m.Search{
		ID:         message.ID,
		UserID:     message.UserID,
		Body:       message.Body,
		Emotion:    message.Emotion,
		ResultType: "message",
		CreatedAt:  message.CreatedAt,
	})
	if err != nil {
		log.Printf("Failed to index chat message: %v", err)
	}

	wsPayload := WebSocketPayload{
		Operation: "UPDATE",
		Type:      "mood-update",
		UserID:    userID,
		Received:  message.CreatedAt,
		Payload:   reply.State,
	}

	jsonPayload, err := json.MarshalIndent(wsPayload, "", "\t")
	if err != nil {
		log.Print(err)
	}

	err = rdb.Publish(ctx, "notifications", jsonPayload).Err()
	if err != nil {
		log.Print(err)
	}

	if reply.State.SupportNeeded && reply.State.StressLevel >= checkInStressLevel {
		sendCheckIn(ctx, connPool, rdb, messagingClient, userID, firstName, reply.State.StressLevel)
	}

	responseBytes, err := json.MarshalIndent(reply, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}

func sendCheckIn(ctx context.Context, connPool *m.PGPool, rdb *redis.Client, messagingClient *messaging.Client, userID string, firstName string, stressLevel int) {
	notification := m.CheckInNotification{
		UserID:      userID,
		FirstName:   firstName,
		StressLevel: stressLevel,
	}

	insertQuery := `INSERT INTO notifications (user_id, type, stress_level)
					VALUES ($1, 'check-in', $2)
					RETURNING notification_uid, received_at`

	err := connPool.Pool.QueryRow(ctx, insertQuery, userID, stressLevel).Scan(&notification.NotificationID, &notification.ReceivedAt)
	if err != nil {
		log.Printf("Failed to record check-in notification: %v", err)
		return
	}

	wsPayload := WebSocketPayload{
		Operation: "INSERT",
		Type:      "check-in",
		UserID:    userID,
		Received:  notification.ReceivedAt,
		Payload:   notification,
	}

	jsonPayload, err := json.MarshalIndent(wsPayload, "", "\t")
	if err != nil {
		log.Print(err)
	}

	err = rdb.Publish(ctx, "notifications", jsonPayload).Err()
	if err != nil {
		log.Print(err)
	}

	if messagingClient == nil {
		return
	}
	err = SendCheckInToUID(ctx, connPool, messagingClient, notification)
	if err != nil {
		log.Printf("Failed to send check-in push: %v", err)
	}
}

func GETChatHistory(ctx context.Context, w http.ResponseWriter, r *http.Request, connPool *m.PGPool, authZeroID string) {
	history := m.ChatHistory{}

	historyQuery := `SELECT message_id, user_id, body, emotion, intensity, stress_level, support_needed, created_at
					FROM messages
					WHERE user_id = (SELECT user_id FROM users WHERE auth_zero_id=$1)
					ORDER BY created_at DESC
					LIMIT 50`

	rows, err := connPool.Pool.Query(ctx, historyQuery, authZeroID)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to fetch chat history")
		log.Printf("Unable to fetch chat history: %v", err)
		return
	}

	for rows.Next() {
		var message m.ChatMessage

		err := rows.Scan(&message.ID, &message.UserID, &message.Body, &message.Emotion, &message.Intensity,
			&message.StressLevel, &message.SupportNeeded, &message.CreatedAt)
		if err != nil {
			WriteErrorToWriter(w, "Error: Failed to scan chat message")
			log.Printf("Failed to scan chat message: %v", err)
			return
		}

		history.UserID = message.UserID
		history.Messages = append(history.Messages, message)
	}

	responseBytes, err := json.MarshalIndent(history, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}
