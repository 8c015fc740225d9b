package paystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is an append-only JSON-lines file of payment records with the
// full record set mirrored in memory. Appends are flushed per record so
// a crash loses at most the line being written.
type Store struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	records []Record
}

func Open(path string) (*Store, error) {
	store := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	for i := 0; i <= last; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		var record Record
		if err := json.Unmarshal([]byte(lines[i]), &record); err != nil {
			// A torn final line means the process died mid-append.
			if i == last {
				log.Printf("Dropping torn trailing record in %v: %v", path, err)
				break
			}
			return nil, fmt.Errorf("corrupt payment record at line %d: %w", i+1, err)
		}
		store.records = append(store.records, record)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	store.file = file

	return store, nil
}

func (store *Store) Append(record Record) (Record, error) {
	if record.UserID == "" {
		return Record{}, errors.New("paystore: user id is required")
	}
	if record.Amount <= 0 {
		return Record{}, errors.New("paystore: amount must be positive")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Currency == "" {
		record.Currency = "USD"
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	line, err := json.Marshal(record)
	if err != nil {
		return Record{}, err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if store.file == nil {
		return Record{}, errors.New("paystore: store is closed")
	}
	if _, err := store.file.Write(append(line, '\n')); err != nil {
		return Record{}, err
	}
	if err := store.file.Sync(); err != nil {
		return Record{}, err
	}

	store.records = append(store.records, record)
	return record, nil
}

func (store *Store) All() []Record {
	store.mu.Lock()
	defer store.mu.Unlock()

	return append([]Record(nil), store.records...)
}

func (store *Store) TotalFor(userID string) int64 {
	store.mu.Lock()
	defer store.mu.Unlock()

	var total int64
	for _, record := range store.records {
		if record.UserID == userID {
			total += record.Amount
		}
	}
	return total
}

func (store *Store) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.file == nil {
		return nil
	}
	err := store.file.Close()
	store.file = nil
	return err
}
