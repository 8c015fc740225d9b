package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 5, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoReturnsLastError(t *testing.T) {
	calls := 0
	lastErr := errors.New("still broken")
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("earlier failure")
		}
		return lastErr
	})

	assert.Equal(t, 3, calls)
	assert.Equal(t, lastErr, err)
}

func TestDoAtLeastOneAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return errors.New("nope")
	})

	assert.Equal(t, 1, calls)
	assert.Error(t, err)
}

func TestDoContextCancelStopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, 5, time.Hour, func() error {
		calls++
		return errors.New("fail")
	})

	assert.Equal(t, 1, calls, "cancelled context should stop before the second attempt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChunksBoundaries(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want []Chunk
	}{
		{"empty", 0, 10, nil},
		{"negative", -3, 10, nil},
		{"single chunk", 5, 10, []Chunk{{0, 5}}},
		{"exact multiple", 10, 5, []Chunk{{0, 5}, {5, 10}}},
		{"remainder", 7, 3, []Chunk{{0, 3}, {3, 6}, {6, 7}}},
		{"size zero means one chunk", 7, 0, []Chunk{{0, 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunks(tt.n, tt.size))
		})
	}
}
