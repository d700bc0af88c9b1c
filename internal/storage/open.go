package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// OpenOptions selects and configures a backend.
type OpenOptions struct {
	Backend     string
	DataDir     string
	Redis       RedisOptions
	DatabaseURL string
}

// Open connects the configured backend. The returned func releases its
// connections.
func Open(ctx context.Context, opts OpenOptions, log logrus.FieldLogger) (Port, func(), error) {
	noop := func() {}

	switch opts.Backend {
	case BackendMemory:
		log.Warn("using in-memory storage; data is lost on restart")
		return NewMemory(), noop, nil

	case BackendFile:
		f, err := NewFile(opts.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open data dir: %w", err)
		}
		return f, noop, nil

	case BackendRedis:
		rdb, err := NewRedisClient(ctx, opts.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedis(rdb), func() { rdb.Close() }, nil

	case BackendPostgres:
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		pg := NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}
