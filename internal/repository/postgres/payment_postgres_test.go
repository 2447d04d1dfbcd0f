package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

var paymentCols = []string{"id", "document_id", "amount_cents", "kind", "external_transaction_ref", "idempotency_key", "recorded_at"}

func TestPaymentPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	entry := &model.PaymentEntry{
		ID:             "01HQZX",
		DocumentID:     "doc-1",
		AmountCents:    25000,
		Kind:           model.PaymentKindPartial,
		IdempotencyKey: "k-1",
		RecordedAt:     now,
	}

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(paymentCols).
			AddRow(entry.ID, entry.DocumentID, entry.AmountCents, entry.Kind, nil, entry.IdempotencyKey, now)

		mock.ExpectQuery("INSERT INTO payment_entries").
			WithArgs(entry.ID, entry.DocumentID, entry.AmountCents, entry.Kind, entry.ExternalTransactionRef, entry.IdempotencyKey, entry.RecordedAt).
			WillReturnRows(rows)

		result, err := repo.Append(ctx, entry)

		assert.NoError(t, err)
		assert.Equal(t, entry.ID, result.ID)
		assert.Equal(t, "k-1", result.IdempotencyKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate idempotency key", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO payment_entries").
			WithArgs(entry.ID, entry.DocumentID, entry.AmountCents, entry.Kind, entry.ExternalTransactionRef, entry.IdempotencyKey, entry.RecordedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_payment_entries_idem_key"})

		result, err := repo.Append(ctx, entry)

		assert.ErrorIs(t, err, repository.ErrDuplicateIdempotencyKey)
		assert.Nil(t, result)
	})

	t.Run("other unique violation is not remapped", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO payment_entries").
			WithArgs(entry.ID, entry.DocumentID, entry.AmountCents, entry.Kind, entry.ExternalTransactionRef, entry.IdempotencyKey, entry.RecordedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "payment_entries_pkey"})

		_, err := repo.Append(ctx, entry)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrDuplicateIdempotencyKey)
	})
}

func TestPaymentPostgres_ListByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(paymentCols).
		AddRow("01HQZA", "doc-1", int64(25000), model.PaymentKindPartial, nil, nil, now).
		AddRow("01HQZB", "doc-1", int64(75000), model.PaymentKindPartial, "txn-9", nil, now)

	mock.ExpectQuery("SELECT (.+) FROM payment_entries WHERE document_id").
		WithArgs("doc-1").
		WillReturnRows(rows)

	entries, err := repo.ListByDocument(ctx, "doc-1")

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "txn-9", entries[1].ExternalTransactionRef)
	assert.Empty(t, entries[0].IdempotencyKey)
}

func TestPaymentPostgres_FindByIdempotencyKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(paymentCols).
			AddRow("01HQZA", "doc-1", int64(25000), model.PaymentKindPartial, nil, "k-1", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM payment_entries WHERE document_id = (.+) AND idempotency_key").
			WithArgs("doc-1", "k-1").
			WillReturnRows(rows)

		entry, err := repo.FindByIdempotencyKey(ctx, "doc-1", "k-1")

		assert.NoError(t, err)
		assert.Equal(t, "01HQZA", entry.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM payment_entries WHERE document_id = (.+) AND idempotency_key").
			WithArgs("doc-1", "k-2").
			WillReturnError(sql.ErrNoRows)

		entry, err := repo.FindByIdempotencyKey(ctx, "doc-1", "k-2")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, entry)
	})
}
