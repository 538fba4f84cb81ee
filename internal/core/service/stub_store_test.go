package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// In-memory stub store
// ---------------------------------------------------------------------------

type stubStore[T any] struct {
	records []T
	loadErr error
	saveErr error
	saves   int // number of successful Save calls
}

func newStubStore[T any](records ...T) *stubStore[T] {
	return &stubStore[T]{records: records}
}

func (s *stubStore[T]) Load(_ context.Context) ([]T, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *stubStore[T]) Save(_ context.Context, records []T) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = make([]T, len(records))
	copy(s.records, records)
	s.saves++
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sequentialIDs(prefix string) idGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
