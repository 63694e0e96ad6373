package repositories

import (
	"context"
	"errors"

	"shopdesk/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the statement surface shared by *pgxpool.Pool, pgx.Tx and pgxmock.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can open transactions.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxManager runs a unit of work inside a single database transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type txManager struct {
	db DB
}

func NewTxManager(db DB) TxManager {
	return &txManager{db: db}
}

// WithTx commits when fn returns nil and rolls back otherwise.
func (m *txManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNumericOutOfRange   = "22003"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// notFoundOr converts pgx.ErrNoRows into a NotFound error for the resource.
func notFoundOr(err error, resource string, id any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound(resource, id)
	}
	return err
}

// dependentRowsError maps FK violations on delete into InvalidState.
func dependentRowsError(err error, resource string) error {
	if isPgError(err, pgForeignKeyViolation) {
		return common.InvalidState("%s is still referenced", resource)
	}
	return err
}
