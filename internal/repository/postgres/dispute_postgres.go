package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"
)

// DisputePostgres is the PostgreSQL implementation of
// repository.DisputeRepository. The at-most-one-open-case rule is enforced
// by a partial unique index, not by application-level checks alone.
type DisputePostgres struct {
	q Querier
}

// NewDisputePostgres creates a dispute repository over q.
func NewDisputePostgres(q Querier) *DisputePostgres {
	return &DisputePostgres{q: q}
}

var _ repository.DisputeRepository = (*DisputePostgres)(nil)

const disputeColumns = `id, document_id, initiated_by, user_reason, state, admin_reason, resolved_by, resolved_at, created_at`

// uniqueOpenCaseConstraint is the partial unique index on document_id where
// state = 'pending_admin_review'.
const uniqueOpenCaseConstraint = "idx_rejection_cases_open"

// Create inserts a new open case.
func (r *DisputePostgres) Create(ctx context.Context, c *model.RejectionCase) (*model.RejectionCase, error) {
	const q = `
		INSERT INTO rejection_cases (id, document_id, initiated_by, user_reason, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + disputeColumns
	row := r.q.QueryRowContext(ctx, q,
		c.ID,
		c.DocumentID,
		c.InitiatedBy,
		c.UserReason,
		c.State,
		c.CreatedAt,
	)
	out, err := scanDispute(row)
	if isUniqueViolation(err, uniqueOpenCaseConstraint) {
		return nil, repository.ErrOpenCaseExists
	}
	return out, err
}

// FindByID fetches a single case by its ID.
func (r *DisputePostgres) FindByID(ctx context.Context, id string) (*model.RejectionCase, error) {
	const q = `
		SELECT ` + disputeColumns + `
		FROM rejection_cases
		WHERE id = $1
	`
	out, err := scanDispute(r.q.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return out, err
}

// FindOpenByDocument returns the document's case pending admin review.
func (r *DisputePostgres) FindOpenByDocument(ctx context.Context, documentID string) (*model.RejectionCase, error) {
	const q = `
		SELECT ` + disputeColumns + `
		FROM rejection_cases
		WHERE document_id = $1 AND state = 'pending_admin_review'
	`
	out, err := scanDispute(r.q.QueryRowContext(ctx, q, documentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return out, err
}

// Close resolves the case. The state predicate makes the write a
// compare-and-swap: the second administrator to act gets ErrCaseClosed.
func (r *DisputePostgres) Close(ctx context.Context, c *model.RejectionCase) (*model.RejectionCase, error) {
	const q = `
		UPDATE rejection_cases
		SET state = $1, admin_reason = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $5 AND state = 'pending_admin_review'
		RETURNING ` + disputeColumns
	row := r.q.QueryRowContext(ctx, q,
		c.State,
		nullString(c.AdminReason),
		nullString(c.ResolvedBy),
		nullTime(c.ResolvedAt),
		c.ID,
	)
	out, err := scanDispute(row)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		probe := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rejection_cases WHERE id = $1)`, c.ID)
		if scanErr := probe.Scan(&exists); scanErr != nil {
			return nil, scanErr
		}
		if !exists {
			return nil, repository.ErrNotFound
		}
		return nil, repository.ErrCaseClosed
	}
	return out, err
}

func scanDispute(row *sql.Row) (*model.RejectionCase, error) {
	var (
		c           model.RejectionCase
		adminReason sql.NullString
		resolvedBy  sql.NullString
		resolvedAt  sql.NullTime
	)
	if err := row.Scan(
		&c.ID,
		&c.DocumentID,
		&c.InitiatedBy,
		&c.UserReason,
		&c.State,
		&adminReason,
		&resolvedBy,
		&resolvedAt,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	if adminReason.Valid {
		c.AdminReason = &adminReason.String
	}
	if resolvedBy.Valid {
		c.ResolvedBy = &resolvedBy.String
	}
	if resolvedAt.Valid {
		c.ResolvedAt = &resolvedAt.Time
	}
	return &c, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
