package postgres

import (
	"context"
	"testing"
	"time"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestAuditPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditPostgres(db)
	ctx := context.Background()

	ev := &model.AuditEvent{
		ID:         "01HQZA",
		DocumentID: "doc-1",
		FromStatus: model.StatusPending,
		ToStatus:   model.StatusCostEstimated,
		ActorID:    "admin-1",
		OccurredAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs(ev.ID, ev.DocumentID, ev.FromStatus, ev.ToStatus, ev.ActorID, ev.OccurredAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Append(ctx, ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPostgres_ListByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "document_id", "from_status", "to_status", "actor_id", "occurred_at"}).
		AddRow("01HQZA", "doc-1", model.StatusPending, model.StatusCostEstimated, "admin-1", now).
		AddRow("01HQZB", "doc-1", model.StatusCostEstimated, model.StatusPaymentPending, "user-1", now)

	mock.ExpectQuery("SELECT (.+) FROM audit_events WHERE document_id").
		WithArgs("doc-1").
		WillReturnRows(rows)

	events, err := repo.ListByDocument(ctx, "doc-1")

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	// Trail edges chain in order.
	assert.Equal(t, events[0].ToStatus, events[1].FromStatus)
}

func TestStore_InTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	t.Run("commit on success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO audit_events").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.InTx(ctx, func(tx repository.Store) error {
			return tx.Audit().Append(ctx, &model.AuditEvent{
				ID: "01HQZA", DocumentID: "doc-1",
				FromStatus: model.StatusPending, ToStatus: model.StatusCostEstimated,
				ActorID: "admin-1", OccurredAt: time.Now(),
			})
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := store.InTx(ctx, func(tx repository.Store) error {
			return repository.ErrConcurrentModification
		})

		assert.ErrorIs(t, err, repository.ErrConcurrentModification)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested calls reuse the transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := store.InTx(ctx, func(tx repository.Store) error {
			return tx.InTx(ctx, func(inner repository.Store) error {
				return nil
			})
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
