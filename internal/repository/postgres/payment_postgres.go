package postgres

import (
	"context"
	"database/sql"
	"errors"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"
)

// PaymentPostgres is the PostgreSQL implementation of
// repository.PaymentRepository. The table is append-only; there is no
// update or delete path.
type PaymentPostgres struct {
	q Querier
}

// NewPaymentPostgres creates a payment repository over q.
func NewPaymentPostgres(q Querier) *PaymentPostgres {
	return &PaymentPostgres{q: q}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

const paymentColumns = `id, document_id, amount_cents, kind, external_transaction_ref, idempotency_key, recorded_at`

// uniqueIdemKeyConstraint is the unique index on (document_id, idempotency_key).
const uniqueIdemKeyConstraint = "idx_payment_entries_idem_key"

// Append inserts one ledger entry.
func (r *PaymentPostgres) Append(ctx context.Context, e *model.PaymentEntry) (*model.PaymentEntry, error) {
	const q = `
		INSERT INTO payment_entries (id, document_id, amount_cents, kind, external_transaction_ref, idempotency_key, recorded_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING ` + paymentColumns
	row := r.q.QueryRowContext(ctx, q,
		e.ID,
		e.DocumentID,
		e.AmountCents,
		e.Kind,
		e.ExternalTransactionRef,
		e.IdempotencyKey,
		e.RecordedAt,
	)
	out, err := scanPayment(row)
	if isUniqueViolation(err, uniqueIdemKeyConstraint) {
		return nil, repository.ErrDuplicateIdempotencyKey
	}
	return out, err
}

// ListByDocument returns all entries for a document in recorded order.
// Entry IDs are ULIDs, so the id ordering matches insertion order.
func (r *PaymentPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.PaymentEntry, error) {
	const q = `
		SELECT ` + paymentColumns + `
		FROM payment_entries
		WHERE document_id = $1
		ORDER BY id ASC
	`
	rows, err := r.q.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.PaymentEntry, 0)
	for rows.Next() {
		e, err := scanPaymentFrom(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// FindByIdempotencyKey returns the entry recorded under the key.
func (r *PaymentPostgres) FindByIdempotencyKey(ctx context.Context, documentID, key string) (*model.PaymentEntry, error) {
	const q = `
		SELECT ` + paymentColumns + `
		FROM payment_entries
		WHERE document_id = $1 AND idempotency_key = $2
	`
	out, err := scanPayment(r.q.QueryRowContext(ctx, q, documentID, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return out, err
}

func scanPaymentFrom(s rowScanner) (*model.PaymentEntry, error) {
	var (
		e       model.PaymentEntry
		extRef  sql.NullString
		idemKey sql.NullString
	)
	if err := s.Scan(
		&e.ID,
		&e.DocumentID,
		&e.AmountCents,
		&e.Kind,
		&extRef,
		&idemKey,
		&e.RecordedAt,
	); err != nil {
		return nil, err
	}
	e.ExternalTransactionRef = extRef.String
	e.IdempotencyKey = idemKey.String
	return &e, nil
}

func scanPayment(row *sql.Row) (*model.PaymentEntry, error) { return scanPaymentFrom(row) }
