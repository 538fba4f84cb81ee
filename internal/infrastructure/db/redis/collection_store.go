package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/techvisits/visits-manager/internal/infrastructure/db/jsonarray"
)

const opTimeout = 2 * time.Second

// CollectionStore keeps a whole record collection as one JSON array value.
// Key format: <prefix>:<collection>
type CollectionStore[T any] struct {
	client    redis.Cmdable
	key       string
	logger    zerolog.Logger
	fallbacks prometheus.Counter // optional
}

// NewCollectionStore returns a store for collection under the given key prefix.
func NewCollectionStore[T any](client redis.Cmdable, prefix, collection string, logger zerolog.Logger, fallbacks prometheus.Counter) *CollectionStore[T] {
	key := prefix + ":" + collection
	return &CollectionStore[T]{
		client:    client,
		key:       key,
		logger:    logger.With().Str("redis_key", key).Logger(),
		fallbacks: fallbacks,
	}
}

// Load returns the stored collection. A missing key or a value that is not a
// JSON array loads as an empty collection. Connection errors and records that
// do not fit T are returned.
func (s *CollectionStore[T]) Load(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	records, err := jsonarray.Decode[T](raw)
	if errors.Is(err, jsonarray.ErrMalformed) {
		s.logger.Warn().Err(err).Msg("malformed collection value, using empty collection")
		if s.fallbacks != nil {
			s.fallbacks.Inc()
		}
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis load %s: %w", s.key, err)
	}
	return records, nil
}

// Save overwrites the stored collection. The key has no expiry.
func (s *CollectionStore[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", s.key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
