package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmoi_services/src/paystore"
)

func paymentRequest(t *testing.T, method string, body string, subject string) *http.Request {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, "/payments", reader)
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: subject},
	}
	ctx := context.WithValue(request.Context(), jwtmiddleware.ContextKey{}, claims)
	return request.WithContext(ctx)
}

func openTestStore(t *testing.T) *paystore.Store {
	t.Helper()

	store, err := paystore.Open(filepath.Join(t.TempDir(), "payments.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPOSTPaymentRecordsForAuthenticatedUser(t *testing.T) {
	store := openTestStore(t)
	handler := PaymentEndpointHandler(store)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, paymentRequest(t, http.MethodPost, `{"amount": 499, "currency": "USD"}`, "auth0|alice"))

	var stored paystore.Record
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stored))
	assert.Equal(t, "auth0|alice", stored.UserID)
	assert.Equal(t, int64(499), stored.Amount)
	assert.NotEmpty(t, stored.ID)
}

func TestPOSTPaymentIgnoresUserIDInBody(t *testing.T) {
	store := openTestStore(t)
	handler := PaymentEndpointHandler(store)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, paymentRequest(t, http.MethodPost, `{"user_id": "auth0|mallory", "amount": 100}`, "auth0|alice"))

	var stored paystore.Record
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stored))
	assert.Equal(t, "auth0|alice", stored.UserID)
}

func TestPOSTPaymentRejectsInvalidAmount(t *testing.T) {
	store := openTestStore(t)
	handler := PaymentEndpointHandler(store)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, paymentRequest(t, http.MethodPost, `{"amount": 0}`, "auth0|alice"))

	assert.Contains(t, recorder.Body.String(), "Error:")
	assert.Empty(t, store.All())
}

func TestGETPaymentsReturnsOnlyOwnRecords(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Append(paystore.Record{UserID: "auth0|alice", Amount: 100})
	require.NoError(t, err)
	_, err = store.Append(paystore.Record{UserID: "auth0|alice", Amount: 250})
	require.NoError(t, err)
	_, err = store.Append(paystore.Record{UserID: "auth0|bob", Amount: 999})
	require.NoError(t, err)

	handler := PaymentEndpointHandler(store)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, paymentRequest(t, http.MethodGet, "", "auth0|alice"))

	var summary PaymentSummary
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &summary))
	assert.Equal(t, "auth0|alice", summary.UserID)
	assert.Equal(t, int64(350), summary.Total)
	assert.Len(t, summary.Records, 2)
}

func TestPaymentEndpointRequiresClaims(t *testing.T) {
	store := openTestStore(t)
	handler := PaymentEndpointHandler(store)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/payments", nil))

	assert.Contains(t, recorder.Body.String(), "Failed to get validated claims")
}
