package model

import "time"

// PaymentKind classifies a ledger entry.
type PaymentKind string

const (
	PaymentKindPartial PaymentKind = "partial"
	PaymentKindFull    PaymentKind = "full"
	PaymentKindRefund  PaymentKind = "refund_adjustment"
)

// Valid reports whether k is a known entry kind.
func (k PaymentKind) Valid() bool {
	switch k {
	case PaymentKindPartial, PaymentKindFull, PaymentKindRefund:
		return true
	}
	return false
}

// PaymentEntry is one append-only ledger record for a document. Entries
// reference the document, they never own it.
type PaymentEntry struct {
	ID          string      `json:"id"`
	DocumentID  string      `json:"document_id"`
	AmountCents int64       `json:"amount_cents"`
	Kind        PaymentKind `json:"kind"`

	// ExternalTransactionRef is the opaque reference issued by the payment
	// collaborator; never interpreted here.
	ExternalTransactionRef string `json:"external_transaction_ref,omitempty"`

	// IdempotencyKey deduplicates replayed submissions of the same entry.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	RecordedAt time.Time `json:"recorded_at"`
}

// EffectiveAmount is the entry's contribution to the running total; refund
// adjustments subtract.
func (e PaymentEntry) EffectiveAmount() int64 {
	if e.Kind == PaymentKindRefund {
		return -e.AmountCents
	}
	return e.AmountCents
}

// PaymentStatus is derived from the entry log against the document's cost;
// it is never stored.
type PaymentStatus string

const (
	PaymentStatusNotPaid       PaymentStatus = "not_paid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusFullPaid      PaymentStatus = "full_paid"
)

// LedgerSummary is the derived read model of a document's ledger.
type LedgerSummary struct {
	DocumentID       string        `json:"document_id"`
	TotalPaidCents   int64         `json:"total_paid_cents"`
	OutstandingCents int64         `json:"outstanding_cents"`
	Status           PaymentStatus `json:"status"`
}
