package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"notaryflow/internal/repository"
)

// Querier abstracts *sql.DB and *sql.Tx so each repository runs against
// either a pooled connection or an open transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the PostgreSQL implementation of repository.Store. A Store built
// from *sql.DB runs each call standalone; InTx derives a view whose
// repositories share one transaction.
type Store struct {
	db *sql.DB
	q  Querier
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a Store over the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Requests() repository.RequestRepository { return &RequestPostgres{q: s.q} }
func (s *Store) Payments() repository.PaymentRepository { return &PaymentPostgres{q: s.q} }
func (s *Store) Disputes() repository.DisputeRepository { return &DisputePostgres{q: s.q} }
func (s *Store) Audit() repository.AuditRepository      { return &AuditPostgres{q: s.q} }

// InTx runs fn inside a single database transaction. Nested calls reuse the
// surrounding transaction rather than opening a second one.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if _, already := s.q.(*sql.Tx); already {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation on the named constraint or index.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
