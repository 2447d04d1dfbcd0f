package model

import "time"

// CaseState is the rejection case sub-protocol state.
type CaseState string

const (
	CaseStatePendingAdminReview CaseState = "pending_admin_review"
	CaseStateApproved           CaseState = "approved"
	CaseStateDisagreed          CaseState = "disagreed"
)

// RejectionCase is a user-initiated dispute over delivered work, resolved
// only by an administrator. At most one open case exists per document.
type RejectionCase struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	InitiatedBy string    `json:"initiated_by"`
	UserReason  string    `json:"user_reason"`
	State       CaseState `json:"state"`

	AdminReason *string    `json:"admin_reason,omitempty"`
	ResolvedBy  *string    `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Open reports whether the case still awaits administrator resolution.
func (c *RejectionCase) Open() bool {
	return c.State == CaseStatePendingAdminReview
}
