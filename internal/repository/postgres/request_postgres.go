package postgres

import (
	"context"
	"database/sql"
	"errors"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"
)

// RequestPostgres is the PostgreSQL implementation of
// repository.RequestRepository. It uses parameterized queries only and
// contains no lifecycle logic.
type RequestPostgres struct {
	q Querier
}

// NewRequestPostgres creates a request repository over q.
func NewRequestPostgres(q Querier) *RequestPostgres {
	return &RequestPostgres{q: q}
}

var _ repository.RequestRepository = (*RequestPostgres)(nil)

const requestColumns = `id, owner_id, service_code, status, cost_cents, currency, attachment_path, admin_rejection_reason, created_at, updated_at, revision`

// Create inserts a new request row and returns the stored record.
func (r *RequestPostgres) Create(ctx context.Context, doc *model.DocumentRequest) (*model.DocumentRequest, error) {
	const q = `
		INSERT INTO document_requests (id, owner_id, service_code, status, currency, attachment_path, created_at, updated_at, revision)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, 1)
		RETURNING ` + requestColumns
	row := r.q.QueryRowContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.ServiceCode,
		doc.Status,
		doc.Currency,
		doc.AttachmentPath,
		doc.CreatedAt,
	)
	return scanRequest(row)
}

// FindByID fetches a single request by its ID.
func (r *RequestPostgres) FindByID(ctx context.Context, id string) (*model.DocumentRequest, error) {
	const q = `
		SELECT ` + requestColumns + `
		FROM document_requests
		WHERE id = $1
	`
	doc, err := scanRequest(r.q.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return doc, err
}

// Update writes the mutable fields guarded by the revision read by the
// caller. Zero rows updated means either the row is gone or another writer
// won the race; the follow-up existence probe tells the two apart.
func (r *RequestPostgres) Update(ctx context.Context, doc *model.DocumentRequest, expectedRevision int64) (*model.DocumentRequest, error) {
	const q = `
		UPDATE document_requests
		SET status = $1, cost_cents = $2, currency = $3, attachment_path = $4, admin_rejection_reason = $5, updated_at = $6, revision = revision + 1
		WHERE id = $7 AND revision = $8
		RETURNING ` + requestColumns
	row := r.q.QueryRowContext(ctx, q,
		doc.Status,
		nullInt64(doc.CostCents),
		doc.Currency,
		doc.AttachmentPath,
		nullString(doc.AdminRejectionReason),
		doc.UpdatedAt,
		doc.ID,
		expectedRevision,
	)
	out, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		probe := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM document_requests WHERE id = $1)`, doc.ID)
		if scanErr := probe.Scan(&exists); scanErr != nil {
			return nil, scanErr
		}
		if !exists {
			return nil, repository.ErrNotFound
		}
		return nil, repository.ErrConcurrentModification
	}
	return out, err
}

// List returns requests using LIMIT/OFFSET pagination and a total count.
func (r *RequestPostgres) List(ctx context.Context, f repository.RequestFilter, pq repository.PageQuery) (*repository.PageResult[model.DocumentRequest], error) {
	var total int
	if f.OwnerID != "" {
		const qCount = `SELECT COUNT(*) FROM document_requests WHERE owner_id = $1`
		if err := r.q.QueryRowContext(ctx, qCount, f.OwnerID).Scan(&total); err != nil {
			return nil, err
		}
	} else {
		const qCount = `SELECT COUNT(*) FROM document_requests`
		if err := r.q.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
			return nil, err
		}
	}

	var (
		rows *sql.Rows
		err  error
	)
	if f.OwnerID != "" {
		const qList = `
			SELECT ` + requestColumns + `
			FROM document_requests
			WHERE owner_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = r.q.QueryContext(ctx, qList, f.OwnerID, pq.Limit, pq.Offset)
	} else {
		const qList = `
			SELECT ` + requestColumns + `
			FROM document_requests
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2
		`
		rows, err = r.q.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentRequest, 0)
	for rows.Next() {
		doc, err := scanRequestRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.DocumentRequest]{Items: items, Total: total}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequestFrom(s rowScanner) (*model.DocumentRequest, error) {
	var (
		d      model.DocumentRequest
		cost   sql.NullInt64
		reason sql.NullString
	)
	if err := s.Scan(
		&d.ID,
		&d.OwnerID,
		&d.ServiceCode,
		&d.Status,
		&cost,
		&d.Currency,
		&d.AttachmentPath,
		&reason,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.Revision,
	); err != nil {
		return nil, err
	}
	if cost.Valid {
		v := cost.Int64
		d.CostCents = &v
	}
	if reason.Valid {
		v := reason.String
		d.AdminRejectionReason = &v
	}
	return &d, nil
}

func scanRequest(row *sql.Row) (*model.DocumentRequest, error) { return scanRequestFrom(row) }

func scanRequestRows(rows *sql.Rows) (*model.DocumentRequest, error) { return scanRequestFrom(rows) }

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
