package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type pgConn struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates a pgx connection pool and verifies it with a ping.
func OpenPostgres(ctx context.Context, url string) (Store, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &sqlStore{db: &pgConn{pool: pool}}, nil
}

func (c *pgConn) exec(ctx context.Context, q string, args ...any) (int64, error) {
	tag, err := c.pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *pgConn) queryRow(ctx context.Context, q string, args ...any) row {
	return c.pool.QueryRow(ctx, q, args...)
}

func (c *pgConn) query(ctx context.Context, q string, args ...any) (rows, func(), error) {
	rs, err := c.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, nil, err
	}
	return rs, rs.Close, nil
}

func (c *pgConn) ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *pgConn) close() { c.pool.Close() }

func (c *pgConn) schema() []string { return postgresSchema }

func (c *pgConn) isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

func (c *pgConn) isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
