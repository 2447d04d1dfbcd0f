package model

import "time"

// AuditEvent records one applied status transition. The audit trail is
// append-only and is the authoritative history; DocumentRequest.Status is a
// projection of the latest event.
type AuditEvent struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"document_id"`
	FromStatus RequestStatus `json:"from_status"`
	ToStatus   RequestStatus `json:"to_status"`
	ActorID    string        `json:"actor_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}
