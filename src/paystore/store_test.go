package paystore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payments.jsonl")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestAppendThenRead(t *testing.T) {
	store, _ := newTestStore(t)

	record, err := store.Append(Record{UserID: "user-1", Amount: 499})
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "USD", record.Currency)
	assert.False(t, record.CreatedAt.IsZero())

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, record, all[0])
}

func TestAppendValidation(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Append(Record{Amount: 100})
	assert.Error(t, err, "missing user id should be rejected")

	_, err = store.Append(Record{UserID: "user-1", Amount: 0})
	assert.Error(t, err, "zero amount should be rejected")

	_, err = store.Append(Record{UserID: "user-1", Amount: -5})
	assert.Error(t, err, "negative amount should be rejected")

	assert.Empty(t, store.All())
}

func TestReopenPersists(t *testing.T) {
	store, path := newTestStore(t)

	_, err := store.Append(Record{UserID: "user-1", Amount: 1000})
	require.NoError(t, err)
	_, err = store.Append(Record{UserID: "user-2", Amount: 250})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Len(t, reopened.All(), 2)
	assert.EqualValues(t, 1000, reopened.TotalFor("user-1"))
}

func TestTornTrailingLineTolerated(t *testing.T) {
	store, path := newTestStore(t)
	_, err := store.Append(Record{UserID: "user-1", Amount: 100})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Simulate a crash mid-append.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"id":"partial","user_`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	all := reopened.All()
	require.Len(t, all, 1)
	assert.Equal(t, "user-1", all[0].UserID)

	// The store must still accept appends after recovery.
	_, err = reopened.Append(Record{UserID: "user-2", Amount: 50})
	require.NoError(t, err)
}

func TestCorruptMiddleLineRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.jsonl")
	content := `{"id":"a","user_id":"user-1","amount":100,"currency":"USD","created_at":"2026-01-02T03:04:05Z"}
not json at all
{"id":"b","user_id":"user-1","amount":200,"currency":"USD","created_at":"2026-01-02T03:04:06Z"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestTotalFor(t *testing.T) {
	store, _ := newTestStore(t)

	store.Append(Record{UserID: "user-1", Amount: 100})
	store.Append(Record{UserID: "user-1", Amount: 250})
	store.Append(Record{UserID: "user-2", Amount: 999})

	assert.EqualValues(t, 350, store.TotalFor("user-1"))
	assert.EqualValues(t, 999, store.TotalFor("user-2"))
	assert.EqualValues(t, 0, store.TotalFor("user-3"))
}

func TestConcurrentAppends(t *testing.T) {
	store, path := newTestStore(t)

	var wg sync.WaitGroup
	workers := 10
	perWorker := 20
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := store.Append(Record{UserID: "user-1", Amount: 1}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, store.All(), workers*perWorker)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Len(t, reopened.All(), workers*perWorker)
}

func TestAppendAfterCloseFails(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Close())

	_, err := store.Append(Record{UserID: "user-1", Amount: 100})
	assert.Error(t, err)
}
