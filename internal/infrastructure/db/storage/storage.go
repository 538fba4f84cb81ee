// Package storage opens the client and visit collection stores for the
// configured driver.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/techvisits/visits-manager/internal/core/domain"
	"github.com/techvisits/visits-manager/internal/core/ports"
	"github.com/techvisits/visits-manager/internal/infrastructure/db/filedb"
	mongostore "github.com/techvisits/visits-manager/internal/infrastructure/db/mongo"
	redisstore "github.com/techvisits/visits-manager/internal/infrastructure/db/redis"
	"github.com/techvisits/visits-manager/internal/pkg/config"
)

const (
	CollectionClients = "clients"
	CollectionVisits  = "visits"
)

// Stores holds the opened collection stores and their lifecycle hooks.
type Stores struct {
	Driver  string
	Clients ports.Store[domain.Client]
	Visits  ports.Store[domain.Visit]

	// Ping checks that the backing storage is reachable.
	Ping func(ctx context.Context) error
	// Close releases driver connections.
	Close func(ctx context.Context) error
}

// Open builds the stores selected by cfg.Store.Driver. fallbacks, when
// non-nil, is labelled by collection name.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger, fallbacks *prometheus.CounterVec) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.DriverFile, "":
		return openFile(cfg.Store.DataDir, logger, fallbacks), nil
	case config.DriverRedis:
		return openRedis(ctx, cfg.Redis, logger, fallbacks)
	case config.DriverMongo:
		return openMongo(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Store.Driver)
	}
}

func openFile(dataDir string, logger zerolog.Logger, fallbacks *prometheus.CounterVec) *Stores {
	clients := filedb.New[domain.Client](filepath.Join(dataDir, CollectionClients+".json"), logger, counter(fallbacks, CollectionClients))
	visits := filedb.New[domain.Visit](filepath.Join(dataDir, CollectionVisits+".json"), logger, counter(fallbacks, CollectionVisits))

	return &Stores{
		Driver:  config.DriverFile,
		Clients: clients,
		Visits:  visits,
		Ping:    clients.Ping,
		Close:   func(context.Context) error { return nil },
	}
}

func openRedis(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger, fallbacks *prometheus.CounterVec) (*Stores, error) {
	client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Addr, DB: cfg.DB})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	return &Stores{
		Driver:  config.DriverRedis,
		Clients: redisstore.NewCollectionStore[domain.Client](client, cfg.Prefix, CollectionClients, logger, counter(fallbacks, CollectionClients)),
		Visits:  redisstore.NewCollectionStore[domain.Visit](client, cfg.Prefix, CollectionVisits, logger, counter(fallbacks, CollectionVisits)),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		Close: func(context.Context) error {
			return client.Close()
		},
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (*Stores, error) {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	clients := mongostore.NewCollectionStore[domain.Client](db, CollectionClients)
	visits := mongostore.NewCollectionStore[domain.Visit](db, CollectionVisits)
	for _, ensure := range []func(context.Context) error{clients.EnsureIndexes, visits.EnsureIndexes} {
		if err := ensure(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("storage: mongo indexes: %w", err)
		}
	}

	return &Stores{
		Driver:  config.DriverMongo,
		Clients: clients,
		Visits:  visits,
		Ping: func(ctx context.Context) error {
			return mongostore.Ping(ctx, db)
		},
		Close: client.Disconnect,
	}, nil
}

func counter(vec *prometheus.CounterVec, collection string) prometheus.Counter {
	if vec == nil {
		return nil
	}
	return vec.WithLabelValues(collection)
}
