package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	m "qmoi_services/src/models"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1048,
	WriteBufferSize: 1048,
}

// Active is read by ListenAndWrite's loop and flipped from the quit
// path, so it has to be atomic.
type ConnectionState struct {
	Conn   *websocket.Conn
	Active atomic.Bool
}

// WebSocketPayload is the envelope published to redis and forwarded to
// connected clients for mood updates and check-ins.
type WebSocketPayload struct {
	Operation string      `json:"operation"`
	Type      string      `json:"type"`
	UserID    string      `json:"user_id"`
	Received  time.Time   `json:"received"`
	Payload   interface{} `json:"payload"`
}

func WebSocketEndpointHandler(connPool *m.PGPool, rdb *redis.Client, ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		if !ok {
			log.Printf("Failed to get validated claims")
			return
		}

		WebSocket(w, r, connPool, rdb, ctx, claims.RegisteredClaims.Subject, "notifications")
	})
}

func WebSocket(w http.ResponseWriter, r *http.Request, connPool *m.PGPool, rdb *redis.Client, ctx context.Context, authZeroID string, channel string) {
	var uid string
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		w.WriteHeader(500)
		fmt.Fprintf(w, "failed to upgrade websocket: %s", err)
		return
	}

	uidQuery := `SELECT user_id FROM users WHERE auth_zero_id = $1`
	err = connPool.Pool.QueryRow(ctx, uidQuery, authZeroID).Scan(&uid)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to lookup requesting user")
		log.Printf("Unable to lookup requesting user: %v", err)
		return
	}

	newConnection := &ConnectionState{Conn: conn}
	newConnection.Active.Store(true)

	quit := make(chan int)
	go newConnection.ListenAndWrite(ctx, conn, rdb, uid, quit, channel)
	go newConnection.CheckConnectionStatus(ctx, conn, quit)

}

func (connectionState *ConnectionState) ListenAndWrite(ctx context.Context, conn *websocket.Conn, rdb *redis.Client, uid string, quit chan int, channel string) {
	pubSub := rdb.Subscribe(ctx, channel)
	for connectionState.Active.Load() {

		notificationChannel := pubSub.Channel(redis.WithChannelSize(250))

		select {
		case message := <-notificationChannel:
			err := sendWebSocketNotification(conn, message, uid)
			if err != nil {
				log.Printf("ListenAndWriteError: %v", err)
				return
			}
		case <-quit:
			connectionState.Active.Store(false)
		}
	}

	err := pubSub.Close()
	if err != nil {
		log.Printf("Error closing redis channel: %v with error: %v", channel, err)
		return
	}
	err = conn.Close()
	if err != nil {
		log.Printf("Error closing websocket: %v", err)
		return
	}
	return
}

func (connectionState *ConnectionState) CheckConnectionStatus(ctx context.Context, conn *websocket.Conn, quit chan int) {

	for {
		message, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err) {
				log.Printf("error: %v", err)
				quit <- 0
				return
			}
		}
		if message == 1000 {
			quit <- 0
			log.Printf("Closing: %v", message)
			return
		}
	}
}

func sendWebSocketNotification(conn *websocket.Conn, message *redis.Message, uid string) error {
	var wsPayload WebSocketPayload
	err := json.Unmarshal([]byte(message.Payload), &wsPayload)
	if err != nil {
		return err
	}

	// Mood updates and check-ins are addressed to a single user.
	if wsPayload.UserID != uid {
		return nil
	}

	err = conn.WriteMessage(websocket.TextMessage, []byte(message.Payload))
	if err != nil {
		log.Printf("sendWebSocketNotification: %v", err)
		return err
	}
	return nil
}
