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

var disputeCols = []string{"id", "document_id", "initiated_by", "user_reason", "state", "admin_reason", "resolved_by", "resolved_at", "created_at"}

func TestDisputePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDisputePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	c := &model.RejectionCase{
		ID:          "case-1",
		DocumentID:  "doc-1",
		InitiatedBy: "user-1",
		UserReason:  "seal is missing",
		State:       model.CaseStatePendingAdminReview,
		CreatedAt:   now,
	}

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(disputeCols).
			AddRow(c.ID, c.DocumentID, c.InitiatedBy, c.UserReason, c.State, nil, nil, nil, now)

		mock.ExpectQuery("INSERT INTO rejection_cases").
			WithArgs(c.ID, c.DocumentID, c.InitiatedBy, c.UserReason, c.State, c.CreatedAt).
			WillReturnRows(rows)

		result, err := repo.Create(ctx, c)

		assert.NoError(t, err)
		assert.Equal(t, model.CaseStatePendingAdminReview, result.State)
		assert.Nil(t, result.ResolvedAt)
	})

	t.Run("open case already exists", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO rejection_cases").
			WithArgs(c.ID, c.DocumentID, c.InitiatedBy, c.UserReason, c.State, c.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_rejection_cases_open"})

		result, err := repo.Create(ctx, c)

		assert.ErrorIs(t, err, repository.ErrOpenCaseExists)
		assert.Nil(t, result)
	})
}

func TestDisputePostgres_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDisputePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	reason := "user is right"
	admin := "admin-1"
	c := &model.RejectionCase{
		ID:          "case-1",
		DocumentID:  "doc-1",
		InitiatedBy: "user-1",
		UserReason:  "seal is missing",
		State:       model.CaseStateApproved,
		AdminReason: &reason,
		ResolvedBy:  &admin,
		ResolvedAt:  &now,
		CreatedAt:   now,
	}

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(disputeCols).
			AddRow(c.ID, c.DocumentID, c.InitiatedBy, c.UserReason, c.State, reason, admin, now, now)

		mock.ExpectQuery("UPDATE rejection_cases").
			WithArgs(c.State, nullString(c.AdminReason), nullString(c.ResolvedBy), nullTime(c.ResolvedAt), c.ID).
			WillReturnRows(rows)

		result, err := repo.Close(ctx, c)

		assert.NoError(t, err)
		assert.Equal(t, model.CaseStateApproved, result.State)
		assert.Equal(t, "admin-1", *result.ResolvedBy)
	})

	t.Run("already resolved", func(t *testing.T) {
		mock.ExpectQuery("UPDATE rejection_cases").
			WithArgs(c.State, nullString(c.AdminReason), nullString(c.ResolvedBy), nullTime(c.ResolvedAt), c.ID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(c.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		result, err := repo.Close(ctx, c)

		assert.ErrorIs(t, err, repository.ErrCaseClosed)
		assert.Nil(t, result)
	})

	t.Run("unknown case", func(t *testing.T) {
		mock.ExpectQuery("UPDATE rejection_cases").
			WithArgs(c.State, nullString(c.AdminReason), nullString(c.ResolvedBy), nullTime(c.ResolvedAt), c.ID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(c.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		result, err := repo.Close(ctx, c)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, result)
	})
}

func TestDisputePostgres_FindOpenByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDisputePostgres(db)
	ctx := context.Background()

	t.Run("open case", func(t *testing.T) {
		rows := sqlmock.NewRows(disputeCols).
			AddRow("case-1", "doc-1", "user-1", "seal is missing", model.CaseStatePendingAdminReview, nil, nil, nil, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM rejection_cases WHERE document_id").
			WithArgs("doc-1").
			WillReturnRows(rows)

		c, err := repo.FindOpenByDocument(ctx, "doc-1")

		assert.NoError(t, err)
		assert.True(t, c.Open())
	})

	t.Run("no open case", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rejection_cases WHERE document_id").
			WithArgs("doc-2").
			WillReturnError(sql.ErrNoRows)

		c, err := repo.FindOpenByDocument(ctx, "doc-2")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, c)
	})
}
