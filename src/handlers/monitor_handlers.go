package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	m "qmoi_services/src/models"
)

func MonitorEndpointHandler(ctx context.Context, connPool *m.PGPool, rdb *redis.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GETMonitorStatus(ctx, w, r, connPool, rdb)
		}
	})
}

func GETMonitorStatus(ctx context.Context, w http.ResponseWriter, r *http.Request, connPool *m.PGPool, rdb *redis.Client) {
	status := m.MonitorStatus{
		Database:  "ok",
		Redis:     "ok",
		CheckedAt: time.Now().UTC(),
	}

	err := connPool.Pool.Ping(ctx)
	if err != nil {
		status.Database = "unreachable"
		log.Printf("Monitor: postgres ping failed: %v", err)
	}

	err = rdb.Ping(ctx).Err()
	if err != nil {
		status.Redis = "unreachable"
		log.Printf("Monitor: redis ping failed: %v", err)
	}

	if status.Database == "ok" {
		totalQuery := `SELECT COUNT(*) FROM messages`
		lastHourQuery := `SELECT COUNT(*) FROM messages
							WHERE created_at > (now() AT TIME ZONE 'utc') - interval '1 hour'`
		highStressQuery := `SELECT COUNT(*) FROM messages
							WHERE support_needed = true
							AND created_at > (now() AT TIME ZONE 'utc') - interval '1 hour'`

		batch := &pgx.Batch{}
		batch.Queue(totalQuery)
		batch.Queue(lastHourQuery)
		batch.Queue(highStressQuery)
		batchResults := connPool.Pool.SendBatch(ctx, batch)
		defer func() {
			err := batchResults.Close()
			if err != nil {
				log.Printf("%v", err)
				return
			}
		}()

		err = batchResults.QueryRow().Scan(&status.MessagesTotal)
		if err != nil {
			WriteErrorToWriter(w, "Error: Could not count messages")
			log.Printf("Could not count messages: %v", err)
			return
		}
		err = batchResults.QueryRow().Scan(&status.MessagesLastHour)
		if err != nil {
			WriteErrorToWriter(w, "Error: Could not count recent messages")
			log.Printf("Could not count recent messages: %v", err)
			return
		}
		err = batchResults.QueryRow().Scan(&status.HighStressLastHour)
		if err != nil {
			WriteErrorToWriter(w, "Error: Could not count high stress messages")
			log.Printf("Could not count high stress messages: %v", err)
			return
		}
	}

	status.CalculateAnomaly()

	responseBytes, err := json.MarshalIndent(status, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}
