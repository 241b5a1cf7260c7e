package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TestConn is the connection contract a test double must satisfy
// (pgxmock.PgxPoolIface does).
type TestConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// NewPoolForTest creates a Pool with an injected connection (for tests only).
func NewPoolForTest(c TestConn) *Pool {
	return &Pool{conn: c}
}
