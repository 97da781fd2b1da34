package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

var placeholderRegex = regexp.MustCompile(`\$\d+`)

type liteConn struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database file. The pool is limited to a single
// connection so ":memory:" databases are shared by every caller.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &sqlStore{db: &liteConn{db: db}}, nil
}

// rebind rewrites $N placeholders to "?".
func rebind(q string) string {
	return placeholderRegex.ReplaceAllString(q, "?")
}

func (c *liteConn) exec(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := c.db.ExecContext(ctx, rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *liteConn) queryRow(ctx context.Context, q string, args ...any) row {
	return c.db.QueryRowContext(ctx, rebind(q), args...)
}

func (c *liteConn) query(ctx context.Context, q string, args ...any) (rows, func(), error) {
	rs, err := c.db.QueryContext(ctx, rebind(q), args...)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() { rs.Close() }, nil
}

func (c *liteConn) ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *liteConn) close() { c.db.Close() }

func (c *liteConn) schema() []string { return sqliteSchema }

func (c *liteConn) isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

func (c *liteConn) isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
