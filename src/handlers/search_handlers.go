package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/opensearch-project/opensearch-go"
	"github.com/opensearch-project/opensearch-go/opensearchapi"

	"qmoi_services/src/inits"
	m "qmoi_services/src/models"
)

func SearchEndpointHandler(ctx context.Context, connPool *m.PGPool, searchClient *opensearch.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		if !ok {
			log.Printf("Failed to get validated claims")
			return
		}

		switch r.Method {
		case http.MethodGet:
			searchVal := r.URL.Query().Get("lookup")
			ChatLogTextSearch(ctx, w, connPool, searchClient, claims.RegisteredClaims.Subject, searchVal)
		}
	})
}

type searchEnvelope struct {
	Hits struct {
		Hits []struct {
			Score  float64  `json:"_score"`
			Source m.Search `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func ChatLogTextSearch(ctx context.Context, w http.ResponseWriter, connPool *m.PGPool, searchClient *opensearch.Client, authZeroID string, searchVal string) {
	var results []m.Search

	var userID string
	uidQuery := `SELECT user_id FROM users WHERE auth_zero_id = $1`
	err := connPool.Pool.QueryRow(ctx, uidQuery, authZeroID).Scan(&userID)
	if err != nil {
		WriteErrorToWriter(w, "Error: Unable to lookup requesting user")
		log.Printf("Unable to lookup requesting user: %v", err)
		return
	}

	query := fmt.Sprintf(`{
		"query": {
			"bool": {
				"must": [
					{"match": {"body": %q}},
					{"term": {"user_id.keyword": %q}}
				]
			}
		}
	}`, searchVal, userID)

	searchRequest := opensearchapi.SearchRequest{
		Index: []string{inits.ChatSearchIndex},
		Body:  strings.NewReader(query),
	}

	response, err := searchRequest.Do(ctx, searchClient)
	if err != nil {
		WriteErrorToWriter(w, "Error: Failed to perform search")
		log.Printf("Failed to perform search: %v", err)
		return
	}
	defer response.Body.Close()

	var envelope searchEnvelope
	err = json.NewDecoder(response.Body).Decode(&envelope)
	if err != nil {
		WriteErrorToWriter(w, "Error: Failed to parse search response")
		log.Printf("Failed to parse search response: %v", err)
		return
	}

	for _, hit := range envelope.Hits.Hits {
		result := hit.Source
		result.Score = hit.Score
		results = append(results, result)
	}

	responseBytes, err := json.MarshalIndent(results, "", "\t")
	if err != nil {
		log.Panic(err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}
