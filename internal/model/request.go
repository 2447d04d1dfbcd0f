package model

import "time"

// DocumentRequest represents a single submitted document service order and
// its lifecycle state. This is a pure domain model with no database-specific
// dependencies or tags; it can be used across layers (HTTP, service,
// persistence) without coupling to storage.
type DocumentRequest struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"owner_id"`
	ServiceCode string        `json:"service_code"`
	Status      RequestStatus `json:"status"`

	// CostCents is set once cost estimation completes; nil until then.
	// Amounts are minor units (cents), no floats.
	CostCents *int64 `json:"cost_cents,omitempty"`
	Currency  string `json:"currency,omitempty"`

	// AttachmentPath is the object-storage key of the submitted payload,
	// empty when the post-commit upload has not happened or failed.
	AttachmentPath string `json:"attachment_path,omitempty"`

	// AdminRejectionReason is set when an administrator rejects the
	// request directly; nil on every other path.
	AdminRejectionReason *string `json:"admin_rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Revision increases on every mutation and guards optimistic
	// concurrency: writes are conditioned on the revision read.
	Revision int64 `json:"revision"`
}
