package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/storage"

	m "qmoi_services/src/models"
	"qmoi_services/src/retry"
)

const (
	exportChunkSize     = 500
	exportUploadRetries = 5
	exportRetryBase     = 500 * time.Millisecond
)

// ExportEndpointHandler is mounted behind RequireAPIKey; the key owner
// is taken from the request context.
func ExportEndpointHandler(ctx context.Context, connPool *m.PGPool, gcsClient *storage.Client, bucket string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(APIKeyContextKey{}).(string)
		if !ok {
			log.Printf("Failed to get API key owner from context")
			return
		}

		switch r.Method {
		case http.MethodPost:
			POSTExportChatLog(ctx, w, r, connPool, gcsClient, bucket, userID)
		}
	})
}

func POSTExportChatLog(ctx context.Context, w http.ResponseWriter, r *http.Request, connPool *m.PGPool, gcsClient *storage.Client, bucket string, userID string) {
	var records []m.ChatMessage

	query := `SELECT message_id, user_id, body, emotion, intensity, stress_level, support_needed, created_at
				FROM messages
				WHERE user_id = $1
				ORDER BY created_at ASC`

	rows, err := connPool.Pool.Query(ctx, query, userID)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to fetch chat log for export")
		log.Printf("Unable to fetch chat log for export: %v", err)
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

		records = append(records, message)
	}

	result := m.ExportResult{UserID: userID, RecordCount: len(records)}
	stamp := time.Now().UTC().Format("20060102T150405")

	// Large logs are pushed in parts, each retried with backoff.
	for i, chunk := range retry.Chunks(len(records), exportChunkSize) {
		object := fmt.Sprintf("exports/%v/%v-part-%04d.jsonl", userID, stamp, i+1)

		var lines bytes.Buffer
		for _, record := range records[chunk.Start:chunk.End] {
			line, err := json.Marshal(record)
			if err != nil {
				WriteErrorToWriter(w, "Error: Failed to serialize chat log")
				log.Printf("Failed to serialize chat log: %v", err)
				return
			}
			lines.Write(line)
			lines.WriteByte('\n')
		}

		err = retry.Do(ctx, exportUploadRetries, exportRetryBase, func() error {
			writer := gcsClient.Bucket(bucket).Object(object).NewWriter(ctx)
			writer.ContentType = "application/octet-stream"
			if _, err := writer.Write(lines.Bytes()); err != nil {
				writer.Close()
				return err
			}
			return writer.Close()
		})
		if err != nil {
			WriteErrorToWriter(w, "Error: Unable to upload export archive")
			log.Printf("Unable to upload export archive: %v", err)
			return
		}

		opts := &storage.SignedURLOptions{
			Scheme:  storage.SigningSchemeV4,
			Method:  "GET",
			Expires: time.Now().UTC().Add(15 * time.Minute),
		}

		url, err := gcsClient.Bucket(bucket).SignedURL(object, opts)
		if err != nil {
			WriteErrorToWriter(w, "Error: Unable to generate signed URL for export")
			log.Printf("Unable to generate signed URL for export link: %v", err)
			return
		}

		result.Parts = append(result.Parts, m.ExportPart{Object: object, URL: url})
	}

	responseBytes, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}
