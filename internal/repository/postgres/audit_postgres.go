package postgres

import (
	"context"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"
)

// AuditPostgres is the PostgreSQL implementation of
// repository.AuditRepository. Events are append-only; there is no update or
// delete path, the trail is the authoritative transition history.
type AuditPostgres struct {
	q Querier
}

// NewAuditPostgres creates an audit repository over q.
func NewAuditPostgres(q Querier) *AuditPostgres {
	return &AuditPostgres{q: q}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Append inserts one transition event.
func (r *AuditPostgres) Append(ctx context.Context, ev *model.AuditEvent) error {
	const q = `
		INSERT INTO audit_events (id, document_id, from_status, to_status, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, q,
		ev.ID,
		ev.DocumentID,
		ev.FromStatus,
		ev.ToStatus,
		ev.ActorID,
		ev.OccurredAt,
	)
	return err
}

// ListByDocument returns the document's transition trail in applied order.
// Event IDs are ULIDs, so the id ordering matches insertion order.
func (r *AuditPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.AuditEvent, error) {
	const q = `
		SELECT id, document_id, from_status, to_status, actor_id, occurred_at
		FROM audit_events
		WHERE document_id = $1
		ORDER BY id ASC
	`
	rows, err := r.q.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.AuditEvent, 0)
	for rows.Next() {
		var ev model.AuditEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.DocumentID,
			&ev.FromStatus,
			&ev.ToStatus,
			&ev.ActorID,
			&ev.OccurredAt,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
