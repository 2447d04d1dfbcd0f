package kyc

import "context"

// Package kyc is the read-through adapter for the external identity
// verification service. Verdicts are never cached: KYC status can change
// between calls and gated transitions must see the latest verdict.

// Verdict is the current KYC outcome for a user.
type Verdict string

const (
	VerdictApproved Verdict = "approved"
	VerdictPending  Verdict = "pending"
	VerdictRejected Verdict = "rejected"
)

// Gate exposes the verdict check consumed by the lifecycle engine.
type Gate interface {
	// Check returns the user's current verdict. It performs a live read
	// against the collaborator on every call.
	Check(ctx context.Context, userID string) (Verdict, error)
}
