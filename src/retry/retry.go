package retry

import (
	"context"
	"time"
)

type Chunk struct {
	Start int
	End   int
}

// Do runs fn up to attempts times, sleeping between tries with the
// delay doubling each round, starting from base. The context cancels
// the wait; the last error is returned when every attempt fails.
func Do(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	delay := base
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

// Chunks splits n items into half-open [Start, End) ranges of at most
// size items, for pushing large batches in pieces.
func Chunks(n int, size int) []Chunk {
	if n <= 0 {
		return nil
	}
	if size <= 0 || size >= n {
		return []Chunk{{Start: 0, End: n}}
	}

	var chunks []Chunk
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, Chunk{Start: start, End: end})
	}
	return chunks
}
