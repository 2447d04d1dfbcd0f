package service

import (
	"context"
	"io"

	"notaryflow/internal/model"
)

// Attachment is the submitted document payload handed to the (external)
// object store after the core transaction commits.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// SubmitInput creates a new document request.
type SubmitInput struct {
	OwnerID     string
	ServiceCode string
	Attachment  *Attachment
}

// EstimateInput sets the document's cost.
type EstimateInput struct {
	AmountCents int64
	ActorID     string
}

// PaymentInput records one ledger entry.
type PaymentInput struct {
	AmountCents            int64
	Kind                   model.PaymentKind
	ExternalTransactionRef string
	IdempotencyKey         string
	ActorID                string
}

// PaymentResult is the outcome of RecordPayment: the (possibly transitioned)
// document, the recorded entry, and the derived ledger summary.
type PaymentResult struct {
	Document *model.DocumentRequest `json:"document"`
	Entry    *model.PaymentEntry    `json:"entry"`
	Summary  model.LedgerSummary    `json:"summary"`
}

// RequestListResult is the service-level DTO for paginated requests.
type RequestListResult struct {
	Items []model.DocumentRequest `json:"data"`
	Total int                     `json:"total"`
}

// Lifecycle is the document request state engine. Every mutation runs as a
// single revision-guarded transaction; illegal transitions are rejected,
// never coerced.
type Lifecycle interface {
	// Submit creates a request in pending, gated on the submitter's
	// current KYC verdict.
	Submit(ctx context.Context, in SubmitInput) (*model.DocumentRequest, error)

	// EstimateCost sets the cost and moves pending -> cost_estimated.
	EstimateCost(ctx context.Context, documentID string, in EstimateInput) (*model.DocumentRequest, error)

	// RecordPayment appends a ledger entry and applies any resulting
	// status transition in the same transaction.
	RecordPayment(ctx context.Context, documentID string, in PaymentInput) (*PaymentResult, error)

	// Complete moves in_progress -> completed once payment is sufficient.
	Complete(ctx context.Context, documentID, actorID string) (*model.DocumentRequest, error)

	// AdminReject moves any non-terminal document to admin_rejected.
	AdminReject(ctx context.Context, documentID, reason, actorID string) (*model.DocumentRequest, error)

	// Get returns a single request by ID.
	Get(ctx context.Context, documentID string) (*model.DocumentRequest, error)

	// List returns requests, optionally narrowed to an owner.
	List(ctx context.Context, ownerID string, limit, offset int) (*RequestListResult, error)

	// AuditTrail returns the document's applied transitions in order.
	AuditTrail(ctx context.Context, documentID string) ([]model.AuditEvent, error)

	// Summarize returns the document's derived payment state.
	Summarize(ctx context.Context, documentID string) (*model.LedgerSummary, error)
}

// Disputes is the rejection sub-protocol between the document owner and the
// back office.
type Disputes interface {
	// OpenDispute creates a pending_admin_review case and moves the
	// document to rejection_pending_admin.
	OpenDispute(ctx context.Context, documentID, userID, reason string) (*model.RejectionCase, error)

	// AdminApprove closes the case as approved; the document becomes
	// rejected (terminal).
	AdminApprove(ctx context.Context, caseID, adminID, reason string) (*model.RejectionCase, error)

	// AdminDisagree closes the case as disagreed; the document returns to
	// in_progress.
	AdminDisagree(ctx context.Context, caseID, adminID string) (*model.RejectionCase, error)
}
