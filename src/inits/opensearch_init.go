package inits

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	m "qmoi_services/src/models"

	"github.com/opensearch-project/opensearch-go"
	"github.com/opensearch-project/opensearch-go/opensearchapi"
)

const ChatSearchIndex = "qmoi-chat"

// InitOpenSearch creates the chat search index and backfills it with
// the messages already stored in Postgres.
func InitOpenSearch(ctx context.Context, connPool *m.PGPool, client *opensearch.Client) {
	settings := strings.NewReader(`{'settings': {'index': {'number_of_shards': 1,'number_of_replicas': 1 }}}`)

	res := opensearchapi.IndicesCreateRequest{Index: ChatSearchIndex, Body: settings}
	fmt.Println("Creating index")
	fmt.Println(res)

	query := `SELECT message_id, user_id, body, emotion, created_at
				FROM messages`
	response, err := connPool.Pool.Query(ctx, query)
	if err != nil {
		log.Printf("Error query messages for indexing with error: %v", err)
		return
	}

	for response.Next() {
		var result m.Search

		err := response.Scan(&result.ID, &result.UserID, &result.Body, &result.Emotion, &result.CreatedAt)
		if err != nil {
			log.Printf("Error parsing message into object with error: %v", err)
			return
		}
		result.ResultType = "message"

		err = IndexChatMessage(ctx, client, result)
		if err != nil {
			log.Printf("Failed to index message %v: %v", result.ID, err)
			return
		}
	}
}

func IndexChatMessage(ctx context.Context, client *opensearch.Client, result m.Search) error {
	data, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return err
	}
	document := strings.NewReader(string(data))

	req := opensearchapi.IndexRequest{
		Index:      ChatSearchIndex,
		DocumentID: result.ID,
		Body:       document,
	}
	insertResponse, err := req.Do(ctx, client)
	if err != nil {
		return err
	}
	defer insertResponse.Body.Close()

	return nil
}
