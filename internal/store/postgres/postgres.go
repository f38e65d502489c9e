package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"leadcrm/backend/internal/store"
	"leadcrm/backend/internal/store/postgres/migrations"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger

	// release returns the pool. Shared stores only drop a reference.
	release func()
}

// NewStore opens a dedicated pool for databaseURL. Close shuts it down.
func NewStore(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	pool, err := connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, logger: logger, release: pool.Close}, nil
}

type sharedPool struct {
	pool *pgxpool.Pool
	refs int
}

var (
	sharedMu    sync.Mutex
	sharedPools = map[string]*sharedPool{}
)

// SharedStore reuses one pool per databaseURL for the whole process, so
// repeated construction (tests, reloads in development) does not pile up
// connections. The pool is closed when the last Store using it is closed.
func SharedStore(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	sp, ok := sharedPools[databaseURL]
	if !ok {
		pool, err := connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		sp = &sharedPool{pool: pool}
		sharedPools[databaseURL] = sp
	}
	sp.refs++

	var once sync.Once
	release := func() {
		once.Do(func() {
			sharedMu.Lock()
			defer sharedMu.Unlock()
			sp.refs--
			if sp.refs == 0 {
				delete(sharedPools, databaseURL)
				sp.pool.Close()
			}
		})
	}
	return &Store{pool: sp.pool, logger: logger, release: release}, nil
}

// Open picks a dedicated pool in production and the shared one elsewhere.
func Open(ctx context.Context, databaseURL string, production bool, logger *zap.Logger) (*Store, error) {
	if production {
		return NewStore(ctx, databaseURL, logger)
	}
	return SharedStore(ctx, databaseURL, logger)
}

func connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	ctxConn, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctxConn, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// Ping to fail fast.
	ctxPing, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

func (s *Store) Close() {
	if s.release != nil {
		s.release()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded schema migrations through a database/sql
// handle borrowed from the pool.
func (s *Store) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	s.logger.Info("database migrations applied")
	return nil
}

func mapPgErr(err error) error {
	// Unique violation, etc.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return store.ErrConflict
		case "23503":
			return store.ErrNotFound
		default:
			return fmt.Errorf("db_error %s: %s", pgErr.Code, pgErr.Message)
		}
	}
	return err
}
