package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is a handle to one store. Key identifies the store (its DSN / path) and is
// used for caching, schema alignment bookkeeping and lock scoping.
type DB struct {
	*pgxpool.Pool
	Key string
}

type PoolOptions struct {
	MaxConns int32
	MinConns int32
}

func NewPostgreSQLDB(ctx context.Context, dsn string, opts PoolOptions) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 0
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &DB{Pool: pool, Key: dsn}, nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

// Close is safe on handles built without a pool (tests).
func (db *DB) Close() {
	if db == nil || db.Pool == nil {
		return
	}
	db.Pool.Close()
}

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type storeCtxKey struct{}

// WithStore attaches the store resolved for the current request.
func WithStore(ctx context.Context, db *DB) context.Context {
	return context.WithValue(ctx, storeCtxKey{}, db)
}

// StoreFromContext returns the request's store, or nil when none was resolved.
func StoreFromContext(ctx context.Context) *DB {
	db, _ := ctx.Value(storeCtxKey{}).(*DB)
	return db
}

// Transactor runs fn inside one transaction on the store attached to ctx.
// Repositories called with the ctx handed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
